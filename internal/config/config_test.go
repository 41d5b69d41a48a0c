package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"ADDR", "API_BASE", "COORD_RESCALE", "BUBBLE_MAP", "SCENARIO_DEFAULT", "LAYER_CACHE_TTL_S", "DATA_BASE_URL"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	if c.Addr != ":8080" || c.APIBase != "/api" {
		t.Errorf("Addr/APIBase = %q/%q", c.Addr, c.APIBase)
	}
	if c.Rescale != 1 || !c.BubbleMap || c.Scenario != 1 {
		t.Errorf("Rescale/BubbleMap/Scenario = %v/%v/%v", c.Rescale, c.BubbleMap, c.Scenario)
	}
	if c.LayerCacheTTL != time.Hour {
		t.Errorf("LayerCacheTTL = %v, want 1h", c.LayerCacheTTL)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("COORD_RESCALE", "0.00001")
	t.Setenv("BUBBLE_MAP", "false")
	t.Setenv("SCENARIO_DEFAULT", "3")
	t.Setenv("FETCH_TIMEOUT_S", "bogus")
	c := FromEnv()
	if c.Rescale != 0.00001 || c.BubbleMap || c.Scenario != 3 {
		t.Errorf("Rescale/BubbleMap/Scenario = %v/%v/%v", c.Rescale, c.BubbleMap, c.Scenario)
	}
	if c.FetchTimeout != 10*time.Second {
		t.Errorf("FetchTimeout = %v, want fallback 10s", c.FetchTimeout)
	}
}
