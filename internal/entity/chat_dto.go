package entity

import "mime/multipart"

// ChatRequest carries one chat turn together with the caller-owned session
// state. History, the full material list and the already-used set all arrive
// in the body; the updated used set goes back in the response. The server
// keeps no session of its own.
type ChatRequest struct {
	Message       string             `json:"message"`
	History       []ConversationTurn `json:"history"`
	Materials     []Material         `json:"materials"`
	UsedMaterials []Material         `json:"usedMaterials"`
}

type ChatResponse struct {
	Response      string     `json:"response"`
	UsedMaterials []Material `json:"usedMaterials"`
}

type MaterialsResponse struct {
	Materials []Material `json:"materials"`
}

type UploadMaterialRequest struct {
	Title string
	File  *multipart.FileHeader
}

type UploadResponse struct {
	Message        string `json:"message"`
	ContentPreview string `json:"contentPreview"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}
