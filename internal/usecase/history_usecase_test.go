package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fadilmartias/interview-minds/internal/mocks"
	"github.com/fadilmartias/interview-minds/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedInterviews(t *testing.T, store *mocks.InterviewStore, owner string, n int) []uuid.UUID {
	t.Helper()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	ids := make([]uuid.UUID, n)
	for i := 0; i < n; i++ {
		interview := &model.Interview{OwnerID: owner, Score: i * 10, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, store.CreateInterview(context.Background(), interview))
		ids[i] = interview.ID
	}
	return ids
}

func TestHistoryListNewestFirst(t *testing.T) {
	store := mocks.NewInterviewStore()
	ids := seedInterviews(t, store, "owner-1", 5)
	seedInterviews(t, store, "owner-2", 2)
	uc := NewHistoryUsecase(store, nil)

	page, pagination, err := uc.List(context.Background(), "owner-1", 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[4], page[0].ID)
	assert.Equal(t, ids[3], page[1].ID)
	assert.Equal(t, int64(5), pagination.TotalItems)
	assert.Equal(t, int64(3), pagination.TotalPages)
	assert.True(t, pagination.HasMore)
	assert.Equal(t, 1, pagination.From)
	assert.Equal(t, 2, pagination.To)

	page, pagination, err = uc.List(context.Background(), "owner-1", 3, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[0], page[0].ID)
	assert.False(t, pagination.HasMore)
	assert.Equal(t, 5, pagination.From)
}

func TestHistoryGetIsOwnerScoped(t *testing.T) {
	store := mocks.NewInterviewStore()
	ids := seedInterviews(t, store, "owner-1", 1)
	uc := NewHistoryUsecase(store, nil)

	got, err := uc.Get(context.Background(), "owner-1", ids[0])
	require.NoError(t, err)
	assert.Equal(t, ids[0], got.ID)

	_, err = uc.Get(context.Background(), "owner-2", ids[0])
	assert.ErrorIs(t, err, ErrInterviewNotFound)
}

func TestAttachVideoOnce(t *testing.T) {
	store := mocks.NewInterviewStore()
	ids := seedInterviews(t, store, "owner-1", 1)
	videos := &mocks.VideoStorage{}
	uc := NewHistoryUsecase(store, videos)
	upload := func() VideoUpload {
		return VideoUpload{FileName: "Session.MP4", ContentType: "video/mp4", Size: 5, Body: strings.NewReader("video")}
	}

	url, err := uc.AttachVideo(context.Background(), "owner-1", ids[0], upload())
	require.NoError(t, err)
	key := "interviews/" + ids[0].String() + "/recording.mp4"
	assert.True(t, strings.HasPrefix(url, "https://storage.test/"+key+"?"), url)
	assert.Equal(t, []byte("video"), videos.Uploads[key])

	stored := store.All()
	require.Len(t, stored, 1)
	require.NotNil(t, stored[0].VideoKey)
	assert.Equal(t, key, *stored[0].VideoKey)
	assert.Nil(t, stored[0].VideoURL)

	_, err = uc.AttachVideo(context.Background(), "owner-1", ids[0], upload())
	assert.ErrorIs(t, err, ErrVideoAlreadyAttached)
}

func TestHistoryGetSignsRecordingOnEveryRead(t *testing.T) {
	store := mocks.NewInterviewStore()
	ids := seedInterviews(t, store, "owner-1", 1)
	key := "interviews/" + ids[0].String() + "/recording.webm"
	require.NoError(t, store.AttachVideo(context.Background(), ids[0], "owner-1", key))
	uc := NewHistoryUsecase(store, &mocks.VideoStorage{})

	first, err := uc.Get(context.Background(), "owner-1", ids[0])
	require.NoError(t, err)
	require.NotNil(t, first.VideoURL)
	assert.Equal(t, "https://storage.test/"+key+"?signature=1", *first.VideoURL)

	second, err := uc.Get(context.Background(), "owner-1", ids[0])
	require.NoError(t, err)
	require.NotNil(t, second.VideoURL)
	assert.Equal(t, "https://storage.test/"+key+"?signature=2", *second.VideoURL)
}

func TestHistoryGetWithoutSignedURL(t *testing.T) {
	store := mocks.NewInterviewStore()
	ids := seedInterviews(t, store, "owner-1", 1)
	require.NoError(t, store.AttachVideo(context.Background(), ids[0], "owner-1", "interviews/x/recording.webm"))

	tests := map[string]*HistoryUsecase{
		"no object store": NewHistoryUsecase(store, nil),
		"signing fails":   NewHistoryUsecase(store, &mocks.VideoStorage{PresignErr: errors.New("minio down")}),
	}
	for name, uc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := uc.Get(context.Background(), "owner-1", ids[0])
			require.NoError(t, err)
			assert.Nil(t, got.VideoURL)
			require.NotNil(t, got.VideoKey)
		})
	}
}

func TestAttachVideoErrors(t *testing.T) {
	store := mocks.NewInterviewStore()
	ids := seedInterviews(t, store, "owner-1", 1)

	_, err := NewHistoryUsecase(store, nil).AttachVideo(context.Background(), "owner-1", ids[0], VideoUpload{Body: strings.NewReader("")})
	assert.ErrorIs(t, err, ErrVideoStorageUnavailable)

	uc := NewHistoryUsecase(store, &mocks.VideoStorage{})
	_, err = uc.AttachVideo(context.Background(), "owner-2", ids[0], VideoUpload{Body: strings.NewReader("")})
	assert.ErrorIs(t, err, ErrInterviewNotFound)

	failing := NewHistoryUsecase(store, &mocks.VideoStorage{Err: errors.New("bucket gone")})
	_, err = failing.AttachVideo(context.Background(), "owner-1", ids[0], VideoUpload{FileName: "a.webm", Body: strings.NewReader("x")})
	require.Error(t, err)
	got, _ := NewHistoryUsecase(store, nil).Get(context.Background(), "owner-1", ids[0])
	assert.Nil(t, got.VideoKey)
}
