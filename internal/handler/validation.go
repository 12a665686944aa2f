package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/inkline/internal/db"
)

// RegisterValidators installs the custom binding validators used by the
// request structs. Call once at startup.
func RegisterValidators() {
	engine, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	engine.RegisterValidation("poststatus", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case db.PostStatusDraft, db.PostStatusPublished, db.PostStatusScheduled:
			return true
		}
		return false
	})

	engine.RegisterValidation("entitytype", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case db.EntityTypePost, db.EntityTypeComment:
			return true
		}
		return false
	})

	engine.RegisterValidation("reactionkind", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case db.ReactionLike, db.ReactionLove, db.ReactionDislike:
			return true
		}
		return false
	})

	engine.RegisterValidation("mediatype", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case db.MediaTypeImage, db.MediaTypeVideo, db.MediaTypeAudio, db.MediaTypeDocument:
			return true
		}
		return false
	})
}
