package evm

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// arenaABIJSON covers the arena contract surface the engine touches: the two
// mutating entry points, the read path, and the three battle events.
const arenaABIJSON = `[
  {"type":"function","name":"startBattle","stateMutability":"payable","inputs":[
    {"name":"agent1Id","type":"uint256"},
    {"name":"tactics1","type":"tuple","components":[
      {"name":"strategy","type":"uint8"},
      {"name":"aggressiveness","type":"uint8"},
      {"name":"riskTolerance","type":"uint8"}]},
    {"name":"agent2Id","type":"uint256"},
    {"name":"tactics2","type":"tuple","components":[
      {"name":"strategy","type":"uint8"},
      {"name":"aggressiveness","type":"uint8"},
      {"name":"riskTolerance","type":"uint8"}]},
    {"name":"arenaType","type":"uint8"}],"outputs":[]},
  {"type":"function","name":"fight","stateMutability":"payable","inputs":[
    {"name":"battleId","type":"uint256"}],"outputs":[]},
  {"type":"function","name":"getBattle","stateMutability":"view","inputs":[
    {"name":"battleId","type":"uint256"}],"outputs":[
    {"name":"agent1Id","type":"uint256"},
    {"name":"agent2Id","type":"uint256"},
    {"name":"arenaType","type":"uint8"},
    {"name":"status","type":"uint8"},
    {"name":"winnerId","type":"uint256"},
    {"name":"agent1Health","type":"uint256"},
    {"name":"agent2Health","type":"uint256"}]},
  {"type":"function","name":"battleCount","stateMutability":"view","inputs":[],"outputs":[
    {"name":"","type":"uint256"}]},
  {"type":"event","name":"BattleStarted","inputs":[
    {"name":"battleId","type":"uint256","indexed":true},
    {"name":"agent1Id","type":"uint256","indexed":false},
    {"name":"agent2Id","type":"uint256","indexed":false},
    {"name":"arenaType","type":"uint8","indexed":false}]},
  {"type":"event","name":"BattleFinished","inputs":[
    {"name":"battleId","type":"uint256","indexed":true},
    {"name":"winnerId","type":"uint256","indexed":false},
    {"name":"loserId","type":"uint256","indexed":false}]},
  {"type":"event","name":"Attack","inputs":[
    {"name":"battleId","type":"uint256","indexed":true},
    {"name":"attackerId","type":"uint256","indexed":false},
    {"name":"defenderId","type":"uint256","indexed":false},
    {"name":"damage","type":"uint256","indexed":false}]}
]`

// oracleABIJSON is the randomness-fee provider read surface.
const oracleABIJSON = `[
  {"type":"function","name":"getFee","stateMutability":"view","inputs":[],"outputs":[
    {"name":"","type":"uint256"}]}
]`

var (
	arenaABI  = mustParseABI(arenaABIJSON)
	oracleABI = mustParseABI(oracleABIJSON)
)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return parsed
}

// abiTactics is the ABI tuple shape of one participant's tactics.
type abiTactics struct {
	Strategy       uint8
	Aggressiveness uint8
	RiskTolerance  uint8
}
