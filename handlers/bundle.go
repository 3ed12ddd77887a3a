package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups every route handler for registration.
type HandlerBundle struct {
	// Schedule extraction/review/commit endpoints.
	ExtractHandler         gin.HandlerFunc
	GetSessionHandler      gin.HandlerFunc
	DiscardSessionHandler  gin.HandlerFunc
	UpdateCandidateHandler gin.HandlerFunc
	AddCandidateHandler    gin.HandlerFunc
	DeleteCandidateHandler gin.HandlerFunc
	RecheckHandler         gin.HandlerFunc
	CommitHandler          gin.HandlerFunc

	// Catalog endpoints.
	GetCatalogsHandler   gin.HandlerFunc
	GetLabsByTypeHandler gin.HandlerFunc
}
