package core

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderSide(t *testing.T) {
	assert.Equal(t, "BUY", SideBuy.String())
	assert.Equal(t, "SELL", SideSell.String())
	assert.Equal(t, SideSell, SideBuy.Opposite())
	assert.Equal(t, SideBuy, SideSell.Opposite())
	assert.Equal(t, SideUnknown, SideUnknown.Opposite())

	out, err := sonic.Marshal(SideBuy)
	require.NoError(t, err)
	assert.Equal(t, `"BUY"`, string(out))
}

func TestOrderType_IsMarket(t *testing.T) {
	assert.True(t, TypeMarket.IsMarket())
	assert.True(t, TypeTriggerMarket.IsMarket())
	assert.True(t, TypeStopLoss.IsMarket())
	assert.False(t, TypeLimit.IsMarket())
	assert.False(t, TypeTriggerLimit.IsMarket())
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.False(t, StatusOpen.IsTerminal())
	assert.False(t, StatusUnknown.IsTerminal())
	assert.True(t, StatusClosed.IsTerminal())
	assert.True(t, StatusCanceled.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusExpired.IsTerminal())
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "POST_ONLY", PostOnly.String())
	assert.Equal(t, "swap", MarketTypeSwap.String())
	assert.Equal(t, "isolated", MarginModeIsolated.String())
	assert.Equal(t, "long", PositionLong.String())
	assert.Equal(t, "maker", LiquidityMaker.String())
	assert.Equal(t, "ok", TxStatusOK.String())
	assert.Equal(t, "TRIGGER_LIMIT", TypeTriggerLimit.String())
}
