package handler

import (
    "errors"
    "net/http"
    "reflect"
    "strings"

    "github.com/go-playground/validator/v10"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/stayboard/internal/conflict"
)

// RequestValidator plugs go-playground/validator into echo.  Besides the
// built-in tags it knows "isodate" (YYYY-MM-DD) and "notblank", which
// rejects strings made only of whitespace.
type RequestValidator struct {
    v *validator.Validate
}

func NewValidator() *RequestValidator {
    v := validator.New()
    v.RegisterTagNameFunc(func(f reflect.StructField) string {
        name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
        if name == "-" || name == "" {
            return f.Name
        }
        return name
    })
    _ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
        return conflict.IsISODate(fl.Field().String())
    })
    _ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
        return strings.TrimSpace(fl.Field().String()) != ""
    })
    return &RequestValidator{v: v}
}

func (r *RequestValidator) Validate(i interface{}) error {
    return r.v.Struct(i)
}

var errInvalidBody = errors.New("invalid request body")

// bindAndValidate binds the JSON body into dst and runs the validator.
// On failure it has already written the 400 response and returns a non-nil
// error the handler returns as is.
func bindAndValidate(c echo.Context, dst interface{}) (bool, error) {
    if err := c.Bind(dst); err != nil {
        return false, c.JSON(http.StatusBadRequest, echo.Map{"error": errInvalidBody.Error()})
    }
    if err := c.Validate(dst); err != nil {
        return false, c.JSON(http.StatusBadRequest, echo.Map{
            "error":  "validation failed",
            "fields": fieldErrors(err),
        })
    }
    return true, nil
}

// fieldErrors turns validator errors into {"field": "rule"} pairs.
func fieldErrors(err error) map[string]string {
    out := map[string]string{}
    var ve validator.ValidationErrors
    if !errors.As(err, &ve) {
        out["_"] = err.Error()
        return out
    }
    for _, fe := range ve {
        rule := fe.Tag()
        if fe.Param() != "" {
            rule += "=" + fe.Param()
        }
        out[fe.Field()] = rule
    }
    return out
}
