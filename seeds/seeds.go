// Package seeds is the compile-time table of program-derived-address
// seed constants shared with the on-chain SVM programs (spec.md §6, §9
// "Static seed tables"). These are baked in, not parsed from an IDL at
// runtime.
package seeds

// Bridge program seeds.
var (
	Bridge             = []byte("bridge")
	SolVault           = []byte("sol_vault")
	TokenVault         = []byte("token_vault")
	OutgoingMessage    = []byte("outgoing_message")
	IncomingMessage    = []byte("incoming_message")
	OutputRoot         = []byte("output_root")
	WrappedToken       = []byte("wrapped_token")
	BridgeCpiAuthority = []byte("bridge_cpi_authority")
)

// Relayer program seeds.
var (
	Cfg = []byte("cfg")
	Mtr = []byte("mtr")
)
