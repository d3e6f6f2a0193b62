package domain_test

import (
	"errors"
	"testing"

	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name string
		req  domain.Request
		want []string
	}{
		{"valid", domain.Request{XCapacity: 2, YCapacity: 10, ZAmountWanted: 4}, nil},
		{"zero target", domain.Request{XCapacity: 5, YCapacity: 3, ZAmountWanted: 0}, nil},
		{"target equals larger jug", domain.Request{XCapacity: 2, YCapacity: 3, ZAmountWanted: 3}, nil},
		{"negative x", domain.Request{XCapacity: -1, YCapacity: 5, ZAmountWanted: 3}, []string{domain.MsgXCapacity}},
		{"zero x", domain.Request{XCapacity: 0, YCapacity: 5, ZAmountWanted: 3}, []string{domain.MsgXCapacity}},
		{"negative y", domain.Request{XCapacity: 5, YCapacity: -1, ZAmountWanted: 3}, []string{domain.MsgYCapacity}},
		{"zero y", domain.Request{XCapacity: 5, YCapacity: 0, ZAmountWanted: 3}, []string{domain.MsgYCapacity}},
		{"negative target", domain.Request{XCapacity: 5, YCapacity: 3, ZAmountWanted: -1}, []string{domain.MsgTargetNegative}},
		{"target too large", domain.Request{XCapacity: 2, YCapacity: 3, ZAmountWanted: 10}, []string{domain.MsgTargetTooLarge}},
		{
			"every field invalid",
			domain.Request{XCapacity: 0, YCapacity: -2, ZAmountWanted: -1},
			[]string{domain.MsgXCapacity, domain.MsgYCapacity, domain.MsgTargetNegative},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)

			var vErr *domain.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.want, vErr.Messages)
		})
	}
}

func TestRequest_Key(t *testing.T) {
	req := domain.Request{XCapacity: 2, YCapacity: 10, ZAmountWanted: 4}
	assert.Equal(t, "waterjug_2_10_4", req.Key())
	assert.NotEqual(t, req.Key(), domain.Request{XCapacity: 10, YCapacity: 2, ZAmountWanted: 4}.Key())
}

func TestResponse_CloneIsIndependent(t *testing.T) {
	orig := &domain.Response{
		Solution:   []domain.SolutionStep{{Step: 1, BucketX: 2, Action: domain.ActionFillX, Status: domain.StatusSolved}},
		IsSolvable: true,
		TotalSteps: 1,
	}

	c := orig.Clone()
	c.FromCache = true
	c.Solution[0].BucketX = 99

	assert.False(t, orig.FromCache)
	assert.Equal(t, 2, orig.Solution[0].BucketX)

	final, ok := orig.FinalState()
	require.True(t, ok)
	assert.Equal(t, domain.State{X: 2, Y: 0}, final)
}
