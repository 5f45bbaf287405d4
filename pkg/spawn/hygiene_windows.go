//go:build windows

package spawn

// Handle hygiene needs no cooperating child on Windows: the attribute
// list handed to CreateProcess names the complete inheritance set, so
// unlisted handles never reach the child in the first place.

func hygieneEnviron(plan *inheritancePlan) []string {
	return nil
}

// CloseUnlistedDescriptors is a no-op on Windows; the attribute list
// already scopes inheritance at process creation.
func CloseUnlistedDescriptors() error {
	return nil
}
