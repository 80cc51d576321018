package service

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// requestValidator returns the shared validator. Field errors are keyed by
// the json tag so messages match the wire names.
func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterStructValidation(searchRequestRules, SearchRequest{})
		validate = v
	})
	return validate
}

// searchRequestRules requires either a compound chain or at least one enzyme.
func searchRequestRules(sl validator.StructLevel) {
	req := sl.Current().Interface().(SearchRequest)
	if len(req.Compounds) < 2 && len(req.Enzymes) == 0 {
		sl.ReportError(req.Compounds, "compounds", "Compounds", "chain_or_enzyme", "")
	}
}

func validateRequest(req SearchRequest, maxResultsLimit int) error {
	fields := make(map[string]string)

	err := requestValidator().Struct(req)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fieldKey(fe)] = describe(fe)
		}
	} else if err != nil {
		return err
	}

	if maxResultsLimit > 0 && req.MaxResults > maxResultsLimit {
		fields["max_results"] = "must be at most " + strconv.Itoa(maxResultsLimit)
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "required":
		return "must not be empty"
	case "chain_or_enzyme":
		return "enter at least 2 compounds or at least 1 enzyme"
	default:
		return "failed " + fe.Tag() + " check"
	}
}
