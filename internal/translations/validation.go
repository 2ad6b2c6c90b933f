package translations

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-translations/internal/domain"
)

const (
	maxTranslationLength = 2000
	minContextLength     = 5
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+(\.[A-Za-z0-9_-]+)+$`)

var (
	enRules      = []validation.Rule{validation.Required.Error("English translation is required"), validation.RuneLength(1, maxTranslationLength)}
	neRules      = []validation.Rule{validation.RuneLength(1, maxTranslationLength)}
	contextRules = []validation.Rule{validation.RuneLength(minContextLength, 0)}
)

func validateKey(key, namespace string) validation.Errors {
	errs := validation.Errors{
		"key": validation.Validate(key,
			validation.Required.Error("key is required"),
			validation.Match(keyPattern).Error("key must be dot separated segments of letters, digits, '_' or '-'"),
		),
		"namespace": validation.Validate(namespace,
			validation.Required.Error("namespace is required"),
			validation.In(domain.NamespaceValues()...).Error("namespace is not supported"),
		),
	}
	if errs["key"] == nil && errs["namespace"] == nil && !strings.HasPrefix(key, namespace+".") {
		errs["key"] = validation.NewError("translations.key_namespace_prefix", "key must start with the namespace followed by '.'")
	}
	return errs
}

func validateRecord(record *TranslationKey) error {
	errs := validateKey(record.Key, string(record.Namespace))
	errs["translations.en"] = validation.Validate(record.Translations.EN, enRules...)
	errs["translations.ne"] = validation.Validate(record.Translations.NE, neRules...)
	errs["context"] = validation.Validate(record.Context, contextRules...)
	return asValidation(errs.Filter())
}

// enforceRequired rejects required keys without Nepali text.
func enforceRequired(record *TranslationKey) error {
	if record.IsRequired && record.Translations.NE == "" {
		return domain.Validationf("translation key %q is required and needs a Nepali translation", record.Key)
	}
	return nil
}

func asValidation(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if errors.As(err, &errs) {
		return domain.Validation(errs.Error(), errs)
	}
	return domain.Validation(err.Error(), err)
}
