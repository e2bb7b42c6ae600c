package binder

import (
	"encoding/json"
	"net/http"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/mold/v4"
	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/shishobooks/folio/pkg/errcodes"
)

var unknownFieldsRE = regexp.MustCompile(`^json: unknown field "(.*)"$`)

// reservedQueryParams are read by middleware and never bound to payloads.
var reservedQueryParams = []string{"access_token"}

// Binder implements echo.Binder. It decodes JSON bodies, form bodies, and
// query strings into a struct, cleans the values up with mold, fills in
// defaults, and validates the result.
type Binder struct {
	queryDecoder *schema.Decoder
	formDecoder  *schema.Decoder
	conform      *mold.Transformer
	validate     *validator.Validate
}

func New() (*Binder, error) {
	queryDecoder := schema.NewDecoder()
	queryDecoder.SetAliasTag("query")
	formDecoder := schema.NewDecoder()
	formDecoder.SetAliasTag("form")
	conform := modifiers.New()
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return ""
	})

	validations := map[string]validator.Func{
		"stylekind": styleKindValidator,
		"csscolor":  cssColorValidator,
	}
	for tag, fn := range validations {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	return &Binder{queryDecoder, formDecoder, conform, validate}, nil
}

// Bind binds, modifies, and validates payloads against the given struct.
func (b *Binder) Bind(i interface{}, c echo.Context) error {
	req := c.Request()
	log := logger.FromEchoContext(c)

	disallowEmptyBody := true
	if disallow, ok := c.Get("disallow_empty_body").(bool); ok {
		disallowEmptyBody = disallow
	}

	if req.ContentLength > 0 {
		ctype := req.Header.Get(echo.HeaderContentType)
		switch {
		case strings.HasPrefix(ctype, echo.MIMEApplicationJSON):
			dec := json.NewDecoder(req.Body)
			dec.DisallowUnknownFields()
			defer req.Body.Close()
			if err := dec.Decode(i); err != nil {
				if matches := unknownFieldsRE.FindStringSubmatch(err.Error()); len(matches) > 1 {
					return errcodes.UnknownParameter(matches[1])
				}
				var typeErr *json.UnmarshalTypeError
				if errors.As(err, &typeErr) {
					return errcodes.ValidationTypeError(formatUnmarshalTypeError(typeErr))
				}
				log.Err(err).Error("unknown json decode error")
				return errcodes.MalformedPayload()
			}
		case strings.HasPrefix(ctype, echo.MIMEApplicationForm):
			params, err := c.FormParams()
			if err != nil {
				return errcodes.MalformedPayload()
			}
			if err := b.decodeQuery(i, params, b.formDecoder); err != nil {
				return err
			}
		default:
			return errcodes.UnsupportedMediaType()
		}
	} else {
		if req.Method == http.MethodGet || req.Method == http.MethodDelete {
			if err := b.decodeQuery(i, withoutReserved(c.QueryParams()), b.queryDecoder); err != nil {
				return err
			}
		} else if disallowEmptyBody {
			return errcodes.EmptyRequestBody()
		}
	}

	if err := b.conform.Struct(req.Context(), i); err != nil {
		return errors.WithStack(err)
	}

	if err := defaults.Set(i); err != nil {
		return errors.WithStack(err)
	}

	if err := b.validate.Struct(i); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			return errcodes.ValidationError(formatValidationError(errs[0]))
		}
		return errors.WithStack(err)
	}
	return nil
}

func (b *Binder) decodeQuery(i interface{}, params url.Values, decoder *schema.Decoder) error {
	err := decoder.Decode(i, params)
	if err == nil {
		return nil
	}
	errs, ok := err.(schema.MultiError)
	if !ok {
		return errors.WithStack(err)
	}
	// MultiError is a map, so pick the first key in a stable order.
	var first error
	firstKey := ""
	for key, e := range errs {
		if first == nil || key < firstKey {
			first, firstKey = e, key
		}
	}
	switch e := first.(type) {
	case schema.ConversionError:
		return errcodes.ValidationTypeError(formatSchemaConversionError(e))
	case schema.UnknownKeyError:
		return errcodes.UnknownParameter(e.Key)
	}
	return errors.WithStack(first)
}

func withoutReserved(params url.Values) url.Values {
	out := make(url.Values, len(params))
	for key, values := range params {
		out[key] = values
	}
	for _, key := range reservedQueryParams {
		out.Del(key)
	}
	return out
}
