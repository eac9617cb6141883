package backlight

import (
	"errors"
	"testing"
)

func newTestDevice(t *testing.T, r *Registry, name string, typ Type, max, cur uint32) *Device {
	t.Helper()
	d, err := r.Register(name, Properties{Type: typ, Max: max, Current: cur}, Ops{
		Update: func(uint32) error { return nil },
	})
	if err != nil {
		t.Fatalf("Register(%q) error: %v", name, err)
	}
	return d
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	d := newTestDevice(t, r, "ec_backlight", TypeFirmware, 100, 40)

	got, ok := r.GetByName("ec_backlight")
	if !ok || got != d {
		t.Fatal("GetByName should return the registered device")
	}
	if got.Max() != 100 || got.Brightness() != 40 {
		t.Errorf("device state = max %d, level %d; want 100, 40", got.Max(), got.Brightness())
	}

	if _, ok := r.GetByName("missing"); ok {
		t.Error("GetByName(missing) should report absence")
	}
}

func TestRegistry_DuplicateNameRejected(t *testing.T) {
	r := NewRegistry()
	newTestDevice(t, r, "bl0", TypeRaw, 255, 0)

	_, err := r.Register("bl0", Properties{Type: TypeRaw, Max: 255}, Ops{})
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("error = %v, want ErrDuplicateName", err)
	}
}

func TestRegistry_UnregisterIdempotent(t *testing.T) {
	r := NewRegistry()
	d := newTestDevice(t, r, "bl0", TypeRaw, 255, 0)

	r.Unregister(d)
	if _, ok := r.GetByName("bl0"); ok {
		t.Error("device still present after Unregister")
	}
	r.Unregister(d)  // second removal is a no-op
	r.Unregister(nil) // nil is a no-op
}

func TestRegistry_PreferredFirmwareOverRaw(t *testing.T) {
	r := NewRegistry()
	newTestDevice(t, r, "amdgpu_bl0", TypeRaw, 255, 128)
	fw := newTestDevice(t, r, "ec_backlight", TypeFirmware, 100, 40)

	got, ok := r.Preferred()
	if !ok || got != fw {
		t.Errorf("Preferred() = %v, want the firmware device", got)
	}
}

func TestDevice_SetBrightness(t *testing.T) {
	r := NewRegistry()
	var pushed []uint32
	d, err := r.Register("bl0", Properties{Type: TypeFirmware, Max: 100, Current: 40}, Ops{
		Update: func(level uint32) error {
			pushed = append(pushed, level)
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := d.SetBrightness(75); err != nil {
		t.Fatalf("SetBrightness(75) error: %v", err)
	}
	if d.Brightness() != 75 {
		t.Errorf("cached level = %d, want 75", d.Brightness())
	}
	if len(pushed) != 1 || pushed[0] != 75 {
		t.Errorf("pushed levels = %v, want [75]", pushed)
	}

	if err := d.SetBrightness(101); !errors.Is(err, ErrLevelOutOfRange) {
		t.Errorf("SetBrightness(101) error = %v, want ErrLevelOutOfRange", err)
	}
	if d.Brightness() != 75 {
		t.Error("cached level must not change on a rejected set")
	}
}

func TestDevice_SetBrightnessFailureKeepsCache(t *testing.T) {
	r := NewRegistry()
	fail := errors.New("hardware says no")
	d, _ := r.Register("bl0", Properties{Type: TypeFirmware, Max: 100, Current: 40}, Ops{
		Update: func(uint32) error { return fail },
	})

	if err := d.SetBrightness(50); !errors.Is(err, fail) {
		t.Errorf("error = %v, want the update failure", err)
	}
	if d.Brightness() != 40 {
		t.Errorf("cached level = %d, want unchanged 40", d.Brightness())
	}
}

func TestDevice_UpdateStatusRepushesCache(t *testing.T) {
	r := NewRegistry()
	var pushed []uint32
	d, _ := r.Register("bl0", Properties{Type: TypeFirmware, Max: 100, Current: 60}, Ops{
		Update: func(level uint32) error {
			pushed = append(pushed, level)
			return nil
		},
	})

	if err := d.UpdateStatus(); err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}
	if len(pushed) != 1 || pushed[0] != 60 {
		t.Errorf("pushed levels = %v, want [60]", pushed)
	}
}

func TestDevice_GetBrightnessFallsBackToCache(t *testing.T) {
	r := NewRegistry()
	d, _ := r.Register("bl0", Properties{Type: TypeRaw, Max: 255, Current: 128}, Ops{
		Update: func(uint32) error { return nil },
	})

	got, err := d.GetBrightness()
	if err != nil || got != 128 {
		t.Errorf("GetBrightness() = %d, %v; want 128, nil", got, err)
	}
}
