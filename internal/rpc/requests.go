package rpc

import "fmt"

// Fixed request bodies. Ids are constant per method.
const (
	TipHeaderRequest     = `{"jsonrpc":"2.0","method":"get_tip_header","params":[],"id":1}`
	PeersRequest         = `{"jsonrpc":"2.0","method":"get_peers","params":[],"id":2}`
	TxPoolRequest        = `{"jsonrpc":"2.0","method":"get_raw_tx_pool","params":[false],"id":3}`
	LocalNodeInfoRequest = `{"jsonrpc":"2.0","method":"local_node_info","params":[],"id":4}`
)

// Secp256k1Blake160CodeHash is the default lock script's type hash.
const Secp256k1Blake160CodeHash = "0x9bd7e06f3ecf4be0f2fcd2188b23f1b9fcc88e5d4b65a8637b17723bbda3cce8"

// CellsCapacityRequest builds the indexer query summing the capacity of
// all live cells locked by the default lock with the given args.
func CellsCapacityRequest(lockArgs string) string {
	return fmt.Sprintf(`{"jsonrpc":"2.0","method":"get_cells_capacity","params":[{"script":{"code_hash":"%s","hash_type":"type","args":"%s"},"script_type":"lock"}],"id":1}`,
		Secp256k1Blake160CodeHash, lockArgs)
}
