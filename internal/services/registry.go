package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService     AuthService
	ProjectService  ProjectService
	OfferingService OfferingService
	UploadService   UploadService
	EmailService    *EmailService
}
