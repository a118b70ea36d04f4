package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler    *AuthHandler
	ProjectHandler *ProjectHandler
	ServiceHandler *ServiceHandler
	UploadHandler  *UploadHandler
	HealthHandler  *HealthHandler
}
