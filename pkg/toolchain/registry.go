// SPDX-License-Identifier: MPL-2.0

package toolchain

// gccCompatibleRelease is the release flag set shared by gcc and clang. It
// matches the flags CPython's build uses for extension modules, duplicates included.
var gccCompatibleRelease = []string{
	"-Wsign-compare", "-DNDEBUG", "-g", "-fwrapv", "-O2", "-Wall", "-g",
	"-fstack-protector-strong", "-Wformat", "-Werror=format-security",
	"-g", "-fwrapv", "-O2", "-fPIC",
}

// Registry maps identifiers to profiles. It is populated once and read-only afterwards.
type Registry struct {
	profiles map[ID]Profile
	order    []ID
}

// NewRegistry creates a registry holding the given profiles.
// Later profiles with a duplicate ID replace earlier ones but keep the earlier position.
func NewRegistry(profiles ...Profile) *Registry {
	r := &Registry{profiles: make(map[ID]Profile, len(profiles))}
	for _, p := range profiles {
		if _, exists := r.profiles[p.ID()]; !exists {
			r.order = append(r.order, p.ID())
		}
		r.profiles[p.ID()] = p
	}
	return r
}

// DefaultRegistry returns the registry of the three built-in profiles.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewProfile(ProfileSpec{
			ID:           GCC,
			Compiler:     "gcc",
			BaseFlags:    []string{"-Wall", "-Wextra", "-std=c11"},
			DebugFlags:   []string{"-g", "-O0"},
			ReleaseFlags: gccCompatibleRelease,
			Archiver:     "ar",
			ArchiveFlags: []string{"rcs"},
			Family:       FamilyPOSIX,
		}),
		NewProfile(ProfileSpec{
			ID:           Clang,
			Compiler:     "clang",
			BaseFlags:    []string{"-Wall", "-Wextra", "-std=c11"},
			DebugFlags:   []string{"-g", "-O0"},
			ReleaseFlags: gccCompatibleRelease,
			Archiver:     "ar",
			ArchiveFlags: []string{"rcs"},
			Family:       FamilyPOSIX,
		}),
		NewProfile(ProfileSpec{
			ID:         MSVC,
			Compiler:   "cl",
			BaseFlags:  []string{"/nologo", "/TC"},
			DebugFlags: []string{"/Od", "/Zi", "/RTC1", "/MDd"},
			ReleaseFlags: []string{
				"/O2", "/Oi", "/Ot", "/GL", "/MD", "/DNDEBUG",
				"/W4", "/wd4996", "/wd4820", "/wd4710", "/wd4711",
				"/wd5045", "/wd4115", "/wd4204", "/wd4100", "/wd4255",
			},
			Archiver:     "lib",
			ArchiveFlags: []string{"/nologo"},
			Family:       FamilyMSVC,
		}),
	)
}

// Lookup returns the profile registered under id.
func (r *Registry) Lookup(id ID) (Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return Profile{}, &InvalidIDError{Value: id}
	}
	return p, nil
}

// IDs returns the registered identifiers in registration order.
func (r *Registry) IDs() []ID {
	return append([]ID(nil), r.order...)
}

// Profiles returns all registered profiles in registration order.
func (r *Registry) Profiles() []Profile {
	out := make([]Profile, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.profiles[id])
	}
	return out
}

// Len returns the number of registered profiles.
func (r *Registry) Len() int { return len(r.order) }
