package aa

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// fakeRPC answers JSON-RPC calls from a method → result table
type fakeRPC struct {
	mu       sync.Mutex
	results  map[string]interface{}
	requests []rpcRequest
}

func newFakeRPC(t *testing.T, results map[string]interface{}) (*fakeRPC, *httptest.Server) {
	f := &fakeRPC{results: results}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.requests = append(f.requests, req)
		result, ok := f.results[req.Method]
		f.mu.Unlock()

		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
		if ok {
			resp["result"] = result
		} else {
			resp["error"] = map[string]interface{}{"code": -32601, "message": "method not found"}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeRPC) methods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.requests))
	for i, r := range f.requests {
		out[i] = r.Method
	}
	return out
}

func TestBundlerClient(t *testing.T) {
	ctx := context.Background()
	opHash := common.HexToHash("0x1234")

	fake, srv := newFakeRPC(t, map[string]interface{}{
		"pimlico_getUserOperationGasPrice": map[string]interface{}{
			"slow":     map[string]string{"maxFeePerGas": "0x1", "maxPriorityFeePerGas": "0x1"},
			"standard": map[string]string{"maxFeePerGas": "0x2", "maxPriorityFeePerGas": "0x2"},
			"fast":     map[string]string{"maxFeePerGas": "0x3", "maxPriorityFeePerGas": "0x2"},
		},
		"eth_estimateUserOperationGas": map[string]string{
			"preVerificationGas":   "0x10",
			"verificationGasLimit": "0x20",
			"callGasLimit":         "0x30",
		},
		"pm_sponsorUserOperation": map[string]string{
			"paymaster":                     testPaymaster.Hex(),
			"paymasterData":                 "0xabcd",
			"paymasterVerificationGasLimit": "0x40",
			"paymasterPostOpGasLimit":       "0x1",
			"preVerificationGas":            "0x11",
			"verificationGasLimit":          "0x21",
			"callGasLimit":                  "0x31",
		},
		"eth_sendUserOperation":       opHash.Hex(),
		"eth_getUserOperationReceipt": nil,
	})
	client := NewBundlerClient(srv.URL, discardLogger())
	defer client.Close()

	price, err := client.GasPrice(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), price.Fast.MaxFeePerGas.ToInt().Int64())

	op := sampleOperation()
	estimate, err := client.EstimateUserOperationGas(ctx, op, entryPointV07)
	require.NoError(t, err)
	assert.Equal(t, int64(0x30), estimate.CallGasLimit.ToInt().Int64())

	sponsorship, err := client.SponsorUserOperation(ctx, op, entryPointV07)
	require.NoError(t, err)
	assert.Equal(t, testPaymaster, sponsorship.Paymaster)
	assert.Equal(t, []byte{0xab, 0xcd}, []byte(sponsorship.PaymasterData))

	hash, err := client.SendUserOperation(ctx, op, entryPointV07)
	require.NoError(t, err)
	assert.Equal(t, opHash, hash)

	receipt, err := client.GetUserOperationReceipt(ctx, hash)
	require.NoError(t, err)
	assert.Nil(t, receipt, "null receipt means not yet included")

	assert.Equal(t, []string{
		"pimlico_getUserOperationGasPrice",
		"eth_estimateUserOperationGas",
		"pm_sponsorUserOperation",
		"eth_sendUserOperation",
		"eth_getUserOperationReceipt",
	}, fake.methods())

	// user operation is sent first, entry point second
	send := fake.requests[3]
	require.Len(t, send.Params, 2)
	var sentOp map[string]interface{}
	require.NoError(t, json.Unmarshal(send.Params[0], &sentOp))
	assert.Equal(t, testSender.Hex(), common.HexToAddress(sentOp["sender"].(string)).Hex())
	var sentEntryPoint common.Address
	require.NoError(t, json.Unmarshal(send.Params[1], &sentEntryPoint))
	assert.Equal(t, entryPointV07, sentEntryPoint)
}

func TestBundlerClientError(t *testing.T) {
	_, srv := newFakeRPC(t, map[string]interface{}{})
	client := NewBundlerClient(srv.URL, discardLogger())

	_, err := client.GasPrice(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pimlico_getUserOperationGasPrice")
	assert.Contains(t, err.Error(), "method not found")
}
