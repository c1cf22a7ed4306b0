package errors

import (
	"context"
	"fmt"
	"testing"

	apperrors "github.com/bloodconnect/bloodconnect-web/internal/errors"
	"github.com/stretchr/testify/assert"
)

type customErr struct{}

func (*customErr) Error() string { return "custom" }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "app error code", err: fmt.Errorf("wrap: %w", apperrors.Unauthorized("nope")), want: "unauthorized"},
		{name: "wrapped app error", err: apperrors.Wrap(context.Canceled, apperrors.ErrCodeCanceled, "x"), want: "canceled"},
		{name: "innermost type", err: fmt.Errorf("outer: %w", &customErr{}), want: "errors_customerr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
