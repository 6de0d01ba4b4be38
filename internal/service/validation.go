package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Image is an uploaded binary as received from the client.
type Image struct {
	Filename string
	Data     []byte
}

// CreateInput is a new banner. Mistyped names the fields the client sent with
// a non-string value; their other errors are replaced by a type error.
type CreateInput struct {
	Name        string   `json:"name" validate:"required,notblank,max=255"`
	Description string   `json:"description" validate:"required,notblank"`
	Image       *Image   `json:"image" validate:"-"`
	Mistyped    []string `json:"-" validate:"-"`
}

// UpdateInput applies only the non-nil fields.
type UpdateInput struct {
	Name        *string  `json:"name" validate:"omitnil,min=1,notblank,max=255"`
	Description *string  `json:"description" validate:"omitnil,min=1,notblank"`
	Image       *Image   `json:"image" validate:"-"`
	Mistyped    []string `json:"-" validate:"-"`
}

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif"}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// registration only fails on an empty tag or nil func
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

func (s *BannerService) validateFields(in any) *ValidationError {
	verr := &ValidationError{}

	err := s.validate.Struct(in)
	if err == nil {
		return verr
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.add("input", err.Error())
		return verr
	}

	for _, fe := range fieldErrs {
		verr.add(fe.Field(), fieldMessage(fe))
	}

	return verr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", fe.Field(), fe.Param())
	case "notblank":
		return fmt.Sprintf("The %s field must not be empty.", fe.Field())
	case "min":
		if fe.Param() == "1" {
			return fmt.Sprintf("The %s field must not be empty.", fe.Field())
		}
		return fmt.Sprintf("The %s field must be at least %s characters.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", fe.Field())
	}
}

// checkTypes replaces whatever was recorded for a mistyped field with a
// single type error.
func checkTypes(mistyped []string, verr *ValidationError) {
	for _, field := range mistyped {
		if verr.Fields == nil {
			verr.Fields = make(map[string][]string)
		}
		verr.Fields[field] = []string{fmt.Sprintf("The %s field must be a string.", field)}
	}
}

// checkImage records image violations on verr and returns the extension the
// staged file should carry, derived from the sniffed content type.
func (s *BannerService) checkImage(img *Image, required bool, verr *ValidationError) string {
	if img == nil {
		if required {
			verr.add("image", "The image field is required.")
		}
		return ""
	}

	if len(img.Data) == 0 {
		verr.add("image", "The image field must be an image.")
		return ""
	}

	if int64(len(img.Data)) > s.maxImageSize {
		verr.add("image", fmt.Sprintf("The image field must not be greater than %d kilobytes.", s.maxImageSize/1024))
		return ""
	}

	mtype := mimetype.Detect(img.Data)
	for _, allowed := range allowedImageTypes {
		if mtype.Is(allowed) {
			return strings.TrimPrefix(mtype.Extension(), ".")
		}
	}

	verr.add("image", "The image field must be a file of type: jpeg, png, jpg, gif.")
	return ""
}
