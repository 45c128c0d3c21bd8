package dto

import "github.com/fadilmartias/interview-minds/internal/model"

type ChatRequest struct {
	Message      string       `json:"message"`
	ResumeID     string       `json:"resumeId"`
	History      []model.Turn `json:"history"`
	Persona      string       `json:"persona"`
	Difficulty   string       `json:"difficulty"`
	LanguageMode string       `json:"languageMode"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}
