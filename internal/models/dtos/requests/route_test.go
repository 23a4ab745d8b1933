package requests

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infinite-experiment/router/internal/models"
)

func TestCreateRouteRequest_NormalizeTrimsInPlace(t *testing.T) {
	req := CreateRouteRequest{From: "  a.local:80 ", To: "\tb.local\n", Type: models.RouteTypeProxy}
	req.Normalize()

	assert.Equal(t, "a.local:80", req.From)
	assert.Equal(t, "b.local", req.To)
	assert.NoError(t, req.Validate())
}

func TestCreateRouteRequest_Validate(t *testing.T) {
	tests := []struct {
		name   string
		req    CreateRouteRequest
		fields []string
	}{
		{name: "valid redirect", req: CreateRouteRequest{From: "a", To: "b", Type: models.RouteTypeRedirect}},
		{name: "whitespace only", req: CreateRouteRequest{From: "  ", To: " ", Type: models.RouteTypeProxy}, fields: []string{"from", "to"}},
		{name: "unknown type", req: CreateRouteRequest{From: "a", To: "b", Type: "rail"}, fields: []string{"type"}},
		{name: "empty type", req: CreateRouteRequest{From: "a", To: "b"}, fields: []string{"type"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))

			got := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				got = append(got, fe.Field)
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}

func TestDeleteRouteRequest_Validate(t *testing.T) {
	req := DeleteRouteRequest{From: "   "}
	req.Normalize()
	assert.ErrorIs(t, req.Validate(), ErrValidation)

	req = DeleteRouteRequest{From: " x "}
	req.Normalize()
	assert.Equal(t, "x", req.From)
	assert.NoError(t, req.Validate())
}
