package solution

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeUnit lays down a unit directory with a unit.yaml under root.
func writeUnit(t *testing.T, root, dir, kind, name string, httpPort, tlsPort string) {
	t.Helper()
	unitDir := filepath.Join(root, dir)
	if err := os.MkdirAll(unitDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "kind: " + kind + "\nname: " + name + "\nports:\n  http: " + httpPort + "\n  tls: " + tlsPort + "\n"
	if err := os.WriteFile(filepath.Join(unitDir, UnitFile), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newSolutionDir(t *testing.T, name string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ManifestFile), []byte("name: "+name+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestScan(t *testing.T) {
	root := newSolutionDir(t, "Acme")
	writeUnit(t, root, OrchestratorDir, "orchestrator", "orchestrator", "8100", "9100")
	writeUnit(t, root, FrontendDir, "frontend", "web", "8102", "9102")
	writeUnit(t, root, filepath.Join(ServicesDir, "orders"), "service", "orders", "8104", "9104")
	writeUnit(t, root, filepath.Join(ServicesDir, "billing"), "service", "billing", "8106", "9106")

	units, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(units) != 4 {
		t.Fatalf("Scan() returned %d units, want 4", len(units))
	}

	byName := make(map[string]Unit)
	for _, u := range units {
		byName[u.Name] = u
	}

	orders, ok := byName["orders"]
	if !ok {
		t.Fatal("orders unit not found")
	}
	if orders.Kind != KindService {
		t.Errorf("orders kind = %q, want %q", orders.Kind, KindService)
	}
	if orders.HTTPPort != 8104 || orders.TLSPort != 9104 {
		t.Errorf("orders ports = (%d, %d), want (8104, 9104)", orders.HTTPPort, orders.TLSPort)
	}
	if web := byName["web"]; web.Kind != KindFrontend {
		t.Errorf("web kind = %q, want %q", web.Kind, KindFrontend)
	}
}

func TestScanNotASolutionRoot(t *testing.T) {
	_, err := Scan(t.TempDir())
	if err == nil {
		t.Fatal("Scan() on empty dir should fail")
	}
	if !strings.Contains(err.Error(), ManifestFile) {
		t.Errorf("error %q should name the missing manifest", err)
	}
}

func TestScanSkipsNonUnitDirs(t *testing.T) {
	root := newSolutionDir(t, "Acme")
	writeUnit(t, root, filepath.Join(ServicesDir, "orders"), "service", "orders", "8104", "9104")
	// A stray directory without a unit.yaml is not a unit.
	if err := os.MkdirAll(filepath.Join(root, ServicesDir, "scratch"), 0755); err != nil {
		t.Fatal(err)
	}

	units, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if len(units) != 1 {
		t.Fatalf("Scan() returned %d units, want 1", len(units))
	}
}

func TestScanRejectsMalformedUnit(t *testing.T) {
	root := newSolutionDir(t, "Acme")
	dir := filepath.Join(root, ServicesDir, "orders")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, UnitFile), []byte("kind: service\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Scan(root)
	if err == nil {
		t.Fatal("Scan() should fail on a unit.yaml missing required fields")
	}
	if !strings.Contains(err.Error(), "orders") {
		t.Errorf("error %q should name the offending unit path", err)
	}
}

func TestScanRejectsBadPortValue(t *testing.T) {
	root := newSolutionDir(t, "Acme")
	dir := filepath.Join(root, ServicesDir, "orders")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	bad := "kind: service\nname: orders\nports:\n  http: not-a-port\n  tls: 9104\n"
	if err := os.WriteFile(filepath.Join(dir, UnitFile), []byte(bad), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Scan(root); err == nil {
		t.Fatal("Scan() should fail on a non-integer port")
	}
}

func TestHasName(t *testing.T) {
	units := []Unit{
		{Kind: KindService, Name: "Orders"},
		{Kind: KindFrontend, Name: "web"},
	}

	tests := []struct {
		name string
		want bool
	}{
		{"Orders", true},
		{"orders", true},
		{"ORDERS", true},
		{"web", true},
		{"billing", false},
	}
	for _, tt := range tests {
		if got := HasName(units, tt.name); got != tt.want {
			t.Errorf("HasName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestUsedPorts(t *testing.T) {
	units := []Unit{
		{Name: "orders", HTTPPort: 8104, TLSPort: 9104},
		{Name: "web", HTTPPort: 8102, TLSPort: 9102},
	}
	used := UsedPorts(units)
	for _, p := range []int{8104, 9104, 8102, 9102} {
		if !used[p] {
			t.Errorf("port %d should be marked used", p)
		}
	}
	if used[8100] {
		t.Error("port 8100 should not be marked used")
	}
}

func TestUnitDir(t *testing.T) {
	tests := []struct {
		unit Unit
		want string
	}{
		{Unit{Kind: KindOrchestrator, Name: "orchestrator"}, OrchestratorDir},
		{Unit{Kind: KindFrontend, Name: "web"}, FrontendDir},
		{Unit{Kind: KindService, Name: "orders"}, filepath.Join(ServicesDir, "orders")},
	}
	for _, tt := range tests {
		if got := tt.unit.Dir(); got != tt.want {
			t.Errorf("Dir(%s) = %q, want %q", tt.unit.Name, got, tt.want)
		}
	}
}
