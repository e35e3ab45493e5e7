package config

import (
	"fmt"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BUSRES_"

type lookupFunc func(key string) (string, bool)

// applyEnv overrides fields from BUSRES_* variables. Set-but-empty
// variables are ignored.
func (c *Config) applyEnv(lookup lookupFunc) error {
	envStr(lookup, "BACKEND", &c.Backend)
	envStr(lookup, "DATA_DIR", &c.DataDir)
	envStr(lookup, "SQLITE_PATH", &c.SQLitePath)
	envStr(lookup, "MYSQL_DSN", &c.MySQLDSN)
	envStr(lookup, "REDIS_ADDR", &c.Redis.Addr)
	envStr(lookup, "REDIS_PASSWORD", &c.Redis.Password)
	envStr(lookup, "ACTIVITY_DIR", &c.ActivityDir)
	envStr(lookup, "AMQP_URL", &c.AMQPURL)
	envStr(lookup, "AMQP_QUEUE", &c.AMQPQueue)

	ints := []struct {
		key string
		dst *int
	}{
		{"REDIS_DB", &c.Redis.DB},
		{"SEATS_PER_BUS", &c.SeatsPerBus},
		{"FARE_PER_SEAT", &c.FarePerSeat},
		{"MAX_ATTEMPTS", &c.MaxAttempts},
	}
	for _, i := range ints {
		if err := envInt(lookup, i.key, i.dst); err != nil {
			return err
		}
	}

	if v, ok := lookup(EnvPrefix + "BUSES"); ok && strings.TrimSpace(v) != "" {
		var names []string
		for _, n := range strings.Split(v, ",") {
			names = append(names, strings.TrimSpace(n))
		}
		c.Buses = names
	}
	return nil
}

func envStr(lookup lookupFunc, key string, dst *string) {
	if v, ok := lookup(EnvPrefix + key); ok && v != "" {
		*dst = v
	}
}

func envInt(lookup lookupFunc, key string, dst *int) error {
	v, ok := lookup(EnvPrefix + key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("config: invalid int for %s%s: %q", EnvPrefix, key, v)
	}
	*dst = n
	return nil
}
