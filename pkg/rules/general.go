package rules

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

var languageTierType = reflect.TypeOf(LanguageTier(0))

// decodeGeneral maps the key/value rows of the general sheet onto the typed
// thresholds. Values may arrive as strings (spreadsheet cells), numbers (YAML)
// or language labels ("Befriedigend").
func decodeGeneral(raw map[string]any) (GeneralThresholds, bool, error) {
	general := GeneralThresholds{MaxLanguageTier: 3}
	var md mapstructure.Metadata

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			languageTierHook,
			decimalCommaHook,
		),
		WeaklyTypedInput: true,
		Metadata:         &md,
		Result:           &general,
	})
	if err != nil {
		return general, false, fmt.Errorf("failed to build decoder: %w", err)
	}

	if err := dec.Decode(raw); err != nil {
		return general, false, fmt.Errorf("invalid general requirements: %w", err)
	}

	return general, len(md.Keys) > 0, nil
}

func languageTierHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != languageTierType || from.Kind() != reflect.String {
		return data, nil
	}
	return ParseLanguageTier(data.(string))
}

func decimalCommaHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	if to.Kind() != reflect.Float64 && to.Kind() != reflect.Float32 {
		return data, nil
	}
	return strings.ReplaceAll(strings.TrimSpace(data.(string)), ",", "."), nil
}
