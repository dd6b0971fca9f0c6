package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const maxFormMemory = 8 << 20

// formErrors maps a form field name to its error annotation.
type formErrors map[string]string

type registerForm struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=8,max=16"`
}

func (f *registerForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
}

type loginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

func (f *loginForm) normalize() {
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
}

type postForm struct {
	Title    string `form:"title" binding:"required"`
	Subtitle string `form:"subtitle" binding:"required"`
	ImgURL   string `form:"img_url" binding:"required,http_url"`
	Body     string `form:"body" binding:"required"`
}

func (f *postForm) normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Subtitle = strings.TrimSpace(f.Subtitle)
	f.ImgURL = strings.TrimSpace(f.ImgURL)
	f.Body = strings.TrimSpace(f.Body)
}

type commentForm struct {
	Body string `form:"body" binding:"required"`
}

func (f *commentForm) normalize() {
	f.Body = strings.TrimSpace(f.Body)
}

type form interface {
	normalize()
}

var formFieldNames sync.Once

// useFormFieldNames makes validation errors report the form field name
// ("img_url") instead of the Go field name ("ImgURL").
func useFormFieldNames() {
	formFieldNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// bindForm decodes a URL-encoded or multipart body into dst, normalizes it
// and validates it as a whole. A non-nil formErrors means the submission
// was rejected; err is reserved for unreadable bodies.
func bindForm(c *gin.Context, dst form) (formErrors, error) {
	values, err := postedValues(c)
	if err != nil {
		return nil, err
	}
	if err := binding.MapFormWithTag(dst, values, "form"); err != nil {
		return nil, fmt.Errorf("decode form: %w", err)
	}
	dst.normalize()

	err = binding.Validator.ValidateStruct(dst)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}

	out := make(formErrors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = fieldMessage(dst, fe)
	}
	return out, nil
}

func postedValues(c *gin.Context) (url.Values, error) {
	if strings.HasPrefix(c.ContentType(), gin.MIMEMultipartPOSTForm) {
		if err := c.Request.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, fmt.Errorf("parse multipart form: %w", err)
		}
		return c.Request.PostForm, nil
	}
	if err := c.Request.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	return c.Request.PostForm, nil
}

func fieldMessage(dst any, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "http_url":
		return "Invalid URL."
	case "min", "max":
		lo, hi := lengthBounds(dst, fe.StructField())
		switch {
		case lo != "" && hi != "":
			return fmt.Sprintf("Field must be between %s and %s characters long.", lo, hi)
		case lo != "":
			return fmt.Sprintf("Field must be at least %s characters long.", lo)
		default:
			return fmt.Sprintf("Field cannot be longer than %s characters.", hi)
		}
	default:
		return "Invalid value."
	}
}

// lengthBounds reads min/max from the binding tag of field.
func lengthBounds(dst any, field string) (lo, hi string) {
	t := reflect.TypeOf(dst)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	sf, ok := t.FieldByName(field)
	if !ok {
		return "", ""
	}
	for _, rule := range strings.Split(sf.Tag.Get("binding"), ",") {
		k, v, found := strings.Cut(rule, "=")
		if !found {
			continue
		}
		switch k {
		case "min":
			lo = v
		case "max":
			hi = v
		}
	}
	return lo, hi
}
