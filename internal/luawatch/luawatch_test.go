package luawatch

import "testing"

func TestOnAccessCallsScriptAndHalts(t *testing.T) {
	h, err := New(`
		function on_access(addr, width, is_write)
			return addr == 0x02000000 and is_write
		end
	`)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer h.Close()

	if h.OnAccess(0x02000000, 4, false) {
		t.Error("OnAccess should be false for a read at the watched address")
	}
	if !h.OnAccess(0x02000000, 4, true) {
		t.Error("OnAccess should be true for a write at the watched address")
	}
	if h.OnAccess(0x03000000, 4, true) {
		t.Error("OnAccess should be false at an address the script doesn't match")
	}
}

func TestOnAccessWithNoGlobalIsNoOp(t *testing.T) {
	h, err := New(`-- no on_access defined`)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer h.Close()

	if h.OnAccess(0x02000000, 4, true) {
		t.Error("OnAccess should always be false when the script defines no on_access")
	}
}

func TestNewRejectsInvalidScript(t *testing.T) {
	if _, err := New("this is not lua("); err == nil {
		t.Error("New should reject a script that fails to load")
	}
}
