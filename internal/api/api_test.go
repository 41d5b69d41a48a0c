package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/paulmach/orb"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/colorscale"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/locate"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/scene"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/tabular"
	"github.com/unctad-infovis/2025-tariffs-updated/internal/topo"
)

const topoFixture = `{
  "type": "Topology",
  "arcs": [[[0, 0], [2, 0], [0, 2], [-2, 0], [0, -2]], [[0, 0], [1, 1]]],
  "objects": {
    "economies-color": {"type": "GeometryCollection", "geometries": [
      {"type": "Polygon", "arcs": [[0]], "properties": {"code": "156"}}
    ]},
    "economies": {"type": "GeometryCollection", "geometries": [
      {"type": "Polygon", "arcs": [[0]], "properties": {"code": "156", "labelen": "China", "labelfr": "Chine"}}
    ]},
    "plain-borders": {"type": "GeometryCollection", "geometries": [
      {"type": "LineString", "arcs": [1], "properties": {"code": "156"}}
    ]}
  }
}`

func testDeps(t *testing.T) Deps {
	t.Helper()
	tp, err := topo.Parse([]byte(topoFixture))
	if err != nil {
		t.Fatalf("topo.Parse failed: %v", err)
	}
	rows := []tabular.Row{
		{Code: "156", Scenario: 1, Value: "1"},
		{Code: "156", Scenario: 2, Value: "2"},
	}
	st := &colorscale.Settings{Mode: colorscale.Continuous, Stops: []colorscale.Stop{{Position: 0, Color: "#000000"}, {Position: 2, Color: "#ffffff"}}, LineWidth: 1}
	s, err := scene.NewSession(scene.Documents{Topology: tp, Rows: rows, Settings: st}, scene.Options{})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	return Deps{Session: s}
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestLayersForScenario(t *testing.T) {
	h := BuildRoutes(testDeps(t))
	rec := do(t, h, http.MethodGet, "/layers?scenario=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var sc scene.Scene
	if err := json.Unmarshal(rec.Body.Bytes(), &sc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sc.Scenario != 2 || len(sc.Regions.Data) != 1 {
		t.Fatalf("scene = scenario %d, %d regions", sc.Scenario, len(sc.Regions.Data))
	}
	if v := sc.Regions.Data[0].Value; v == nil || *v != 2 {
		t.Errorf("value = %v, want 2", v)
	}
	if sc.Regions.Data[0].Name != "China" {
		t.Errorf("name = %q, want China", sc.Regions.Data[0].Name)
	}

	if rec := do(t, h, http.MethodGet, "/layers?scenario=x"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad scenario status = %d, want 400", rec.Code)
	}
}

func TestSetScenario(t *testing.T) {
	d := testDeps(t)
	h := BuildRoutes(d)
	if rec := do(t, h, http.MethodGet, "/scenario?index=2"); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want 405", rec.Code)
	}
	rec := do(t, h, http.MethodPost, "/scenario?index=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if d.Session.Current().Scenario != 2 {
		t.Errorf("current scenario = %d, want 2", d.Session.Current().Scenario)
	}
	rec = do(t, h, http.MethodGet, "/layers")
	var sc scene.Scene
	_ = json.Unmarshal(rec.Body.Bytes(), &sc)
	if sc.Scenario != 2 || sc.Seq != 1 {
		t.Errorf("current layers = scenario %d seq %d, want 2/1", sc.Scenario, sc.Seq)
	}
}

func TestGeoJSONExport(t *testing.T) {
	h := BuildRoutes(testDeps(t))
	rec := do(t, h, http.MethodGet, "/geojson?object=plain-borders")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var fc struct {
		Type     string    `json:"type"`
		BBox     []float64 `json:"bbox"`
		Features []struct {
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &fc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fc.Type != "FeatureCollection" || len(fc.Features) != 1 {
		t.Fatalf("collection = %s with %d features", fc.Type, len(fc.Features))
	}
	if fc.Features[0].Geometry.Type != "LineString" || fc.Features[0].Properties["name"] != "China" {
		t.Errorf("feature = %+v", fc.Features[0])
	}
	if len(fc.BBox) != 4 || fc.BBox[2] != 1 || fc.BBox[3] != 1 {
		t.Errorf("bbox = %v, want [0 0 1 1]", fc.BBox)
	}

	if rec := do(t, h, http.MethodGet, "/geojson?object=nope"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown object status = %d, want 404", rec.Code)
	}
}

type fakeLocator struct{ ip string }

func (f *fakeLocator) Locate(ip string, codes locate.CodeLookup) (locate.Result, error) {
	f.ip = ip
	code, _ := codes.CodeByName("China")
	return locate.Result{IP: ip, ISO: "CN", Code: code}, nil
}

func TestLocate(t *testing.T) {
	d := testDeps(t)
	if rec := do(t, BuildRoutes(d), http.MethodGet, "/locate"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("no locator status = %d, want 503", rec.Code)
	}
	fl := &fakeLocator{}
	d.Locator = fl
	req := httptest.NewRequest(http.MethodGet, "/locate", nil)
	req.Header.Set("x-forwarded-for", "203.0.113.7, 10.0.0.1")
	rec := httptest.NewRecorder()
	BuildRoutes(d).ServeHTTP(rec, req)
	var res locate.Result
	_ = json.Unmarshal(rec.Body.Bytes(), &res)
	if fl.ip != "203.0.113.7" || res.Code != "156" {
		t.Errorf("locate ip=%q code=%q, want 203.0.113.7/156", fl.ip, res.Code)
	}
}

func TestHealth(t *testing.T) {
	d := testDeps(t)
	rec := do(t, BuildRoutes(d), http.MethodGet, "/health")
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" || body["version"] != d.Session.Version() {
		t.Errorf("health = %v", body)
	}
}

func TestGetClientIP(t *testing.T) {
	cases := []struct {
		header, value, remote, want string
	}{
		{"x-real-ip", "198.51.100.2", "", "198.51.100.2"},
		{"forwarded", `for="[2001:db8::1]";proto=https`, "", "2001:db8::1"},
		{"", "", "192.0.2.9:5555", "192.0.2.9"},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/locate", nil)
		r.RemoteAddr = tc.remote
		if tc.header != "" {
			r.Header.Set(tc.header, tc.value)
		}
		if got := getClientIP(r); got != tc.want {
			t.Errorf("getClientIP(%s=%s) = %q, want %q", tc.header, tc.value, got, tc.want)
		}
	}
}

func TestLayerKey(t *testing.T) {
	if got := layerKey("abc", 3); got != "layers:abc:3" {
		t.Errorf("layerKey = %q", got)
	}
}

type fakePicker map[orb.Point]string

func (f fakePicker) Lookup(p orb.Point) (string, bool) {
	c, ok := f[p]
	return c, ok
}

func TestPick(t *testing.T) {
	d := testDeps(t)
	d.Picker = fakePicker{{1, 1}: "156"}
	h := BuildRoutes(d)
	rec := do(t, h, http.MethodGet, "/pick?lon=1&lat=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var r scene.RegionRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r.Code != "156" || r.Name != "China" || r.Value == nil || *r.Value != 1 || r.Geometry != nil {
		t.Errorf("pick = %+v", r)
	}
	if rec := do(t, h, http.MethodGet, "/pick?lon=5&lat=5"); rec.Code != http.StatusNotFound {
		t.Errorf("empty point status = %d, want 404", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/pick?lon=a"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad coords status = %d, want 400", rec.Code)
	}
}

func TestLayersForScenarioOmitsSeq(t *testing.T) {
	h := BuildRoutes(testDeps(t))
	for _, n := range []string{"2", "1"} {
		if rec := do(t, h, http.MethodPost, "/scenario?index="+n); rec.Code != http.StatusOK {
			t.Fatalf("POST /scenario?index=%s status = %d", n, rec.Code)
		}
	}
	rec := do(t, h, http.MethodGet, "/layers?scenario=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := raw["seq"]; ok {
		t.Errorf("on-demand build carries seq %s", raw["seq"])
	}

	rec = do(t, h, http.MethodGet, "/layers")
	var cur scene.Scene
	if err := json.Unmarshal(rec.Body.Bytes(), &cur); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cur.Seq != 2 || cur.Scenario != 1 {
		t.Errorf("current = seq %d scenario %d, want 2/1", cur.Seq, cur.Scenario)
	}
}
