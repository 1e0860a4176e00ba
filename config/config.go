package config

import (
	"log"
	"os"
	"strings"
)

// AppName is used as the postgres schema and as a prefix for queue and topic names.
const AppName = "codepay"

// Solana addresses the timelock accounts are derived against.
const (
	defaultTimelockProgram = "time2Z2SCnn3qYg3ULKVtdkh8YmZ5jFdKicnA1W2YnJ"
	defaultMint            = "kinXdEcpDQeHPEuQnqmUgtYykqKGVFq6CeVX5iAHJq6"
	defaultTimeAuthority   = "codeHy87wGD5oMRLG75qKqsSi1vWE3oxNyYmXo5F9YR"
	defaultSystemProgram   = "11111111111111111111111111111111"
)

// TimelockProgram returns the base58 address of the timelock program.
func TimelockProgram() string {
	return getEnv("CODEPAY_TIMELOCK_PROGRAM", defaultTimelockProgram)
}

// Mint returns the base58 address of the token mint held by every vault.
func Mint() string {
	return getEnv("CODEPAY_MINT", defaultMint)
}

// TimeAuthority returns the base58 address allowed to unlock timelock accounts.
func TimeAuthority() string {
	return getEnv("CODEPAY_TIME_AUTHORITY", defaultTimeAuthority)
}

// SystemProgram returns the base58 address of the system program.
func SystemProgram() string {
	return defaultSystemProgram
}

// KafkaBrokers returns the comma separated KAFKA_BROKERS list.
func KafkaBrokers() []string {
	raw := getEnv("KAFKA_BROKERS", "localhost:9092")
	brokers := make([]string, 0)
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		log.Printf("Using %s from environment", key)
		return v
	}
	return fallback
}
