// Package maven reads artifact metadata from a remote Maven repository.
//
// [Client] implements the remote lookups of the POM loader: published
// versions come from <group path>/<artifact>/maven-metadata.xml, licenses
// from the artifact POM, following its parents until one declares some.
//
//	cache, _ := integrations.NewCache("", "maven:", 24*time.Hour)
//	client := maven.NewClient(maven.DefaultBaseURL, cache)
//	versions, err := client.Versions(ctx, "junit", "junit")
//
// Missing artifacts fail with code ARTIFACT_NOT_FOUND, transport failures
// with NETWORK_ERROR.
package maven
