package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yashgajera132/blockchain-voting-system/common"
)

func TestTranslateErrorKinds(t *testing.T) {
	require.NoError(t, translateError(nil))

	err := translateError(fmt.Errorf("rpc call failed: %w", context.DeadlineExceeded))
	require.ErrorIs(t, err, common.ErrNotConnected)

	err = translateError(errors.New("dial tcp 127.0.0.1:8545: connect: connection refused"))
	require.ErrorIs(t, err, common.ErrNotConnected)

	err = translateError(errors.New("user rejected transaction"))
	require.ErrorIs(t, err, common.ErrUserRejected)

	err = translateError(errors.New("invalid chain id for signer"))
	require.ErrorIs(t, err, common.ErrNetworkMismatch)

	opaque := errors.New("something else entirely")
	require.Equal(t, opaque, translateError(opaque))
}

func TestTranslateErrorPreservesRevertReason(t *testing.T) {
	err := translateError(errors.New("execution reverted: Already voted in this election"))
	var revertErr *common.RevertError
	require.ErrorAs(t, err, &revertErr)
	require.Equal(t, "Already voted in this election", revertErr.Reason)

	err = translateError(errors.New(`err: execution reverted, reason="Only verified voters can vote"`))
	require.ErrorAs(t, err, &revertErr)
	require.Equal(t, "Only verified voters can vote", revertErr.Reason)

	err = translateError(errors.New("execution reverted"))
	require.ErrorAs(t, err, &revertErr)
	require.Equal(t, "transaction reverted", revertErr.Reason)
}
