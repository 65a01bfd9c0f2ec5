package dashboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSchemaValidatorViewport(t *testing.T) {
	validator := NewJSONSchemaValidator()

	for _, body := range []string{`{"width":375}`, `{"width":0,"reduced_motion":true}`, ``, `{}`} {
		if err := validator.Validate(PayloadViewport, []byte(body)); err != nil {
			t.Fatalf("expected %q to validate, got %v", body, err)
		}
	}
	for _, body := range []string{`{"width":"wide"}`, `{"width":-1}`, `{"width":1.5}`, `{"height":10}`, `[]`, `{`} {
		err := validator.Validate(PayloadViewport, []byte(body))
		if !errors.Is(err, ErrInvalidPayload) {
			t.Fatalf("expected %q to be rejected as invalid payload, got %v", body, err)
		}
	}
}

func TestJSONSchemaValidatorTooltip(t *testing.T) {
	validator := NewJSONSchemaValidator()

	assert.NoError(t, validator.Validate(PayloadTooltip, []byte(`{"index":0}`)))
	assert.NoError(t, validator.Validate(PayloadTooltip, []byte(`{"index":11}`)))
	assert.ErrorIs(t, validator.Validate(PayloadTooltip, []byte(`{"index":12}`)), ErrInvalidPayload)
	assert.ErrorIs(t, validator.Validate(PayloadTooltip, []byte(`{"index":"2"}`)), ErrInvalidPayload)
}

func TestJSONSchemaValidatorCachesCompiledSchemas(t *testing.T) {
	validator := NewJSONSchemaValidator()
	require.NoError(t, validator.Validate(PayloadTooltip, []byte(`{"index":1}`)))
	require.NoError(t, validator.Validate(PayloadTooltip, []byte(`{"index":2}`)))
	assert.Len(t, validator.compiled, 1)
}

func TestJSONSchemaValidatorUnknownKind(t *testing.T) {
	err := NewJSONSchemaValidator().Validate("theme", []byte(`{}`))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidPayload))
}

func TestDecodePayload(t *testing.T) {
	var viewport Viewport
	require.NoError(t, DecodePayload(NewJSONSchemaValidator(), PayloadViewport, []byte(`{"width":390,"reduced_motion":true}`), &viewport))
	assert.Equal(t, Viewport{Width: 390, ReducedMotion: true}, viewport)

	var empty Viewport
	require.NoError(t, DecodePayload(nil, PayloadViewport, nil, &empty))
	assert.Zero(t, empty)

	err := DecodePayload(nil, PayloadViewport, []byte(`not json`), &empty)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}
