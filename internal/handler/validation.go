package handler

import (
	"fmt"

	"github.com/gatherhub/event-manager/pkg/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func rsvpStatus(fl validator.FieldLevel) bool {
	switch model.RSVPStatus(fl.Field().String()) {
	case model.RSVPStatusAttending, model.RSVPStatusNotAttending, model.RSVPStatusMaybe:
		return true
	}
	return false
}

// RegisterValidation registers the custom validations used by the form
// request structs with gin's validator engine.
func RegisterValidation() error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return v.RegisterValidation("rsvpstatus", rsvpStatus)
	}
	return fmt.Errorf("error getting validation engine")
}
