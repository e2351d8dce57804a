package tool

import (
	"fmt"
	"math/rand"
)

// Labels for upload batches and the default alias, e.g. "Steady Ledger".

var adjectives = []string{
	"Bright",
	"Calm",
	"Careful",
	"Clear",
	"Clever",
	"Fair",
	"Frugal",
	"Golden",
	"Honest",
	"Keen",
	"Lucky",
	"Modest",
	"Patient",
	"Prudent",
	"Quick",
	"Quiet",
	"Smart",
	"Solid",
	"Steady",
	"Thrifty",
	"Wise",
}

var nouns = []string{
	"Abacus",
	"Balance",
	"Coin",
	"Compass",
	"Deposit",
	"Harbor",
	"Ledger",
	"Lighthouse",
	"Nest",
	"Piggybank",
	"Receipt",
	"Savings",
	"Tally",
	"Vault",
	"Wallet",
}

func NameGenerator() string {
	adjective := adjectives[rand.Intn(len(adjectives))]
	noun := nouns[rand.Intn(len(nouns))]
	return fmt.Sprintf("%s %s", adjective, noun)
}
