package maven

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/matzehuels/depexplorer/pkg/errors"
	"github.com/matzehuels/depexplorer/pkg/httputil"
	"github.com/matzehuels/depexplorer/pkg/integrations"
	local "github.com/matzehuels/depexplorer/pkg/maven"
	"github.com/matzehuels/depexplorer/pkg/pom"
	"github.com/matzehuels/depexplorer/pkg/xmlpath"
)

// DefaultBaseURL is Maven Central.
const DefaultBaseURL = "https://repo1.maven.org/maven2"

const pathVersion = "/metadata/versioning/versions/version"

var _ local.Remote = (*Client)(nil)

// Client reads artifact metadata from a Maven repository laid out like
// Maven Central. It is safe for concurrent use.
type Client struct {
	*integrations.Client
	baseURL string
	refresh bool
}

// NewClient returns a client for the repository at baseURL (DefaultBaseURL
// when empty), caching responses in cache, which may be nil.
func NewClient(baseURL string, cache *httputil.Cache) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  integrations.NewClient(cache, nil),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Refresh makes the client ignore cached responses.
func (c *Client) Refresh(refresh bool) *Client {
	c.refresh = refresh
	return c
}

// BaseURL returns the repository root.
func (c *Client) BaseURL() string { return c.baseURL }

// Versions returns the versions listed in the artifact's
// maven-metadata.xml, in document order.
func (c *Client) Versions(ctx context.Context, groupID, artifactID string) ([]string, error) {
	if err := errors.ValidateCoordinate(groupID + ":" + artifactID); err != nil {
		return nil, err
	}
	url := integrations.JoinURL(c.baseURL, groupPath(groupID), artifactID, "maven-metadata.xml")

	var versions []string
	err := c.Cached(ctx, "metadata:"+groupID+":"+artifactID, c.refresh, &versions, func() error {
		data, err := c.GetBytes(ctx, url)
		if err != nil {
			return err
		}
		versions = versions[:0]
		return xmlpath.ParseBytes(url, data, xmlpath.Match(pathVersion, func(r xmlpath.Record) {
			if v := strings.TrimSpace(r.Get("")); v != "" {
				versions = append(versions, v)
			}
		}))
	})
	if err != nil {
		return nil, wrap(err, groupID+":"+artifactID)
	}
	return versions, nil
}

// Licenses returns the license names of an artifact, taken from its POM or
// the closest parent POM declaring some.
func (c *Client) Licenses(ctx context.Context, groupID, artifactID, version string) ([]string, error) {
	if err := errors.ValidateCoordinate(groupID + ":" + artifactID); err != nil {
		return nil, err
	}
	return local.FollowLicenses(groupID, artifactID, version, func(g, a, v string) (local.Descriptor, error) {
		return c.describe(ctx, g, a, v)
	})
}

// descriptor is the cached form of [local.Descriptor].
type descriptor struct {
	Parent   []string `json:"parent,omitempty"`
	Licenses []string `json:"licenses,omitempty"`
}

func (c *Client) describe(ctx context.Context, groupID, artifactID, version string) (local.Descriptor, error) {
	if version == "" || strings.HasPrefix(version, "${") {
		return local.Descriptor{}, errors.New(errors.ErrCodeArtifactNotFound, "%s:%s has no usable version", groupID, artifactID)
	}
	url := integrations.JoinURL(c.baseURL, groupPath(groupID), artifactID, version, artifactID+"-"+version+".pom")

	var d descriptor
	err := c.Cached(ctx, "pom:"+groupID+":"+artifactID+":"+version, c.refresh, &d, func() error {
		data, err := c.GetBytes(ctx, url)
		if err != nil {
			return err
		}
		desc, err := local.Describe(url, data)
		if err != nil {
			return err
		}
		d = descriptor{Licenses: desc.Licenses}
		if p := desc.Parent; p != nil {
			d.Parent = []string{p.GroupID, p.ArtifactID, p.Version}
		}
		return nil
	})
	if err != nil {
		return local.Descriptor{}, wrap(err, groupID+":"+artifactID+":"+version)
	}

	out := local.Descriptor{Licenses: d.Licenses}
	if len(d.Parent) == 3 {
		out.Parent = pom.NewArtifact(d.Parent[0], d.Parent[1], d.Parent[2])
	}
	return out, nil
}

func groupPath(groupID string) string {
	return strings.ReplaceAll(groupID, ".", "/")
}

// wrap gives transport errors their code. Document errors keep theirs.
func wrap(err error, coord string) error {
	switch {
	case errors.GetCode(err) != "":
		return err
	case stderrors.Is(err, integrations.ErrNotFound):
		return errors.Wrap(errors.ErrCodeArtifactNotFound, err, "%s", coord)
	default:
		return errors.Wrap(errors.ErrCodeNetwork, err, "%s", coord)
	}
}
