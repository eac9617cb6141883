package quirk

// Identity is the host identity used for quirk matching.
type Identity struct {
	// Vendor is the system vendor string (e.g. "LENOVO").
	Vendor string

	// ProductVersion is the product-version string
	// (e.g. "Legion S7 15ACH6").
	ProductVersion string
}

// Flags holds the behavioral overrides a quirk entry declares.
type Flags struct {
	// RestoreLevelOnResume re-asserts the cached brightness level
	// after resume, for firmware that resets the EC level during
	// suspend.
	RestoreLevelOnResume bool

	// ProxyTarget names a secondary backlight device that brightness
	// changes are relayed to, for systems which erroneously report EC
	// backlight control. Empty means no proxying.
	ProxyTarget string
}

// Entry associates a host identity with its quirk flags.
type Entry struct {
	Match Identity
	Flags Flags
}

// Table is an ordered quirk rule list. Matching is an ordered scan
// with exact string comparison; no wildcards or partial matches.
type Table []Entry

// Resolve returns the union of the flags of all entries matching id.
// Booleans are ORed; for the proxy target the first matching non-empty
// name wins. A non-matching identity yields zero Flags.
func (t Table) Resolve(id Identity) Flags {
	var out Flags
	for _, e := range t {
		if e.Match.Vendor != id.Vendor || e.Match.ProductVersion != id.ProductVersion {
			continue
		}
		if e.Flags.RestoreLevelOnResume {
			out.RestoreLevelOnResume = true
		}
		if out.ProxyTarget == "" {
			out.ProxyTarget = e.Flags.ProxyTarget
		}
	}
	return out
}

// builtin lists the systems with known firmware defects.
var builtin = Table{
	{
		// Preset as of firmware revision HACN31WW.
		Match: Identity{Vendor: "LENOVO", ProductVersion: "Legion S7 15ACH6"},
		Flags: Flags{RestoreLevelOnResume: true, ProxyTarget: "amdgpu_bl0"},
	},
}

// Resolve matches id against the built-in quirk table.
func Resolve(id Identity) Flags {
	return builtin.Resolve(id)
}
