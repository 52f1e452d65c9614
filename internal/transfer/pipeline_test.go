package transfer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/arghyam/sunbird-android-sdk/internal/transfer"
	"github.com/stretchr/testify/require"
)

func passStep(name string, terminal bool) transfer.Step {
	return transfer.Step{
		Name:     name,
		Terminal: terminal,
		Run:      func(context.Context, *transfer.Context) error { return nil },
	}
}

func TestChainVisitsStepsInOrder(t *testing.T) {
	chain := transfer.Chain{
		Operation:   "test",
		FailureCode: transfer.CodeExportFailed,
		Steps: []transfer.Step{
			passStep("a", false),
			passStep("b", false),
			passStep("c", false),
			passStep("terminal", true),
		},
	}

	tc := &transfer.Context{}
	require.NoError(t, chain.Execute(context.Background(), tc))
	require.Equal(t, []string{"a", "b", "c", "terminal"}, tc.Visited)
}

func TestChainShortCircuitsOnFailure(t *testing.T) {
	boom := errors.New("disk full")
	chain := transfer.Chain{
		Operation:   "test",
		FailureCode: transfer.CodeExportFailed,
		Steps: []transfer.Step{
			passStep("a", false),
			{
				Name: "b",
				Run:  func(context.Context, *transfer.Context) error { return boom },
			},
			passStep("c", false),
			passStep("terminal", true),
		},
	}

	tc := &transfer.Context{}
	err := chain.Execute(context.Background(), tc)

	var te *transfer.TransferError
	require.ErrorAs(t, err, &te)
	require.Equal(t, transfer.CodeExportFailed, te.Code)
	require.Equal(t, "b", te.Step)
	require.Contains(t, te.Message, "disk full")
	require.Equal(t, []string{"a", "b"}, tc.Visited)
}

func TestDanglingChainFails(t *testing.T) {
	chain := transfer.Chain{
		Operation:   "test",
		FailureCode: transfer.CodeImportFailed,
		Steps: []transfer.Step{
			passStep("a", false),
			passStep("b", false),
		},
	}

	tc := &transfer.Context{}
	err := chain.Execute(context.Background(), tc)

	var te *transfer.TransferError
	require.ErrorAs(t, err, &te)
	require.Equal(t, transfer.CodeImportFailed, te.Code)
	require.Equal(t, "operation failed", te.Message)
	require.Equal(t, []string{"a", "b"}, tc.Visited)
}

func TestEmptyChainFails(t *testing.T) {
	chain := transfer.Chain{Operation: "test", FailureCode: transfer.CodeExportFailed}

	err := chain.Execute(context.Background(), &transfer.Context{})
	var te *transfer.TransferError
	require.ErrorAs(t, err, &te)
	require.Equal(t, "operation failed", te.Message)
}
