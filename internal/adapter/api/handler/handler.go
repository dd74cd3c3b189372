package handler

import (
	"predu/internal/usecase"
)

var (
	authHandler         *AuthHandler
	sessionHandler      *SessionHandler
	notificationHandler *NotificationHandler
	userHandler         *UserHandler
	tutorRequestHandler *TutorRequestHandler
	institutionHandler  *InstitutionHandler
	fileHandler         *FileHandler
	chatHandler         *ChatHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	routingUseCase *usecase.RoutingUseCase,
	notificationHub *usecase.NotificationHub,
	profileUseCase *usecase.ProfileUseCase,
	tutorRequestUseCase *usecase.TutorRequestUseCase,
	institutionUseCase *usecase.InstitutionUseCase,
	fileUseCase *usecase.FileUseCase,
	vocationalChatUseCase *usecase.VocationalChatUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	sessionHandler = NewSessionHandler(routingUseCase)
	notificationHandler = NewNotificationHandler(notificationHub)
	userHandler = NewUserHandler(profileUseCase)
	tutorRequestHandler = NewTutorRequestHandler(tutorRequestUseCase)
	institutionHandler = NewInstitutionHandler(institutionUseCase)
	fileHandler = NewFileHandler(fileUseCase, profileUseCase)
	chatHandler = NewChatHandler(vocationalChatUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetSessionHandler() *SessionHandler {
	return sessionHandler
}

func GetNotificationHandler() *NotificationHandler {
	return notificationHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetTutorRequestHandler() *TutorRequestHandler {
	return tutorRequestHandler
}

func GetInstitutionHandler() *InstitutionHandler {
	return institutionHandler
}

func GetFileHandler() *FileHandler {
	return fileHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}
