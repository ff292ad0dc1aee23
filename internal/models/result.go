package models

type AnalyzeRequest struct {
	JobDescription string  `json:"jobDescription"`
	ResumeText     *string `json:"resumeText" validate:"required"`
}

type ExtractRequest struct {
	Filename string `json:"filename"`
}

// UploadResponse and ExtractResponse follow the storage collaborator contract.
type UploadResponse struct {
	Status   string `json:"status"`
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

type ExtractResponse struct {
	Status string `json:"status"`
	Text   string `json:"text"`
}

type StatusErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
