package apiclient

import "github.com/johnrirwin/newsdesk/internal/models"

func modelsUser() models.User {
	return models.User{ID: "u1", Username: "editor", Role: "admin"}
}
