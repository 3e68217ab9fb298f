package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/image-evaluator/internal/domain/evaluation"
)

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Len(t, c.Metadata, len(domain.MetadataKeys))
	assert.Equal(t, "No Geopol Flags identified", c.Regions[domain.RegionEurope].Geopol)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad_OverridesSelectedFields(t *testing.T) {
	path := writeCatalog(t, `
recommendations:
  improve: Try a tripod
realTimeAnalysis: City birds adapt quickly.
regions:
  Asia:
    geopol: Review regional symbolism
metadata:
  mood: busy
`)
	c, err := Load(path)
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Recommendations.Praise, c.Recommendations.Praise)
	assert.Equal(t, "Try a tripod", c.Recommendations.Improve)
	assert.Equal(t, "City birds adapt quickly.", c.RealTimeAnalysis)
	assert.Equal(t, def.HistoricalAnalysis, c.HistoricalAnalysis)
	assert.Equal(t, "Review regional symbolism", c.Regions[domain.RegionAsia].Geopol)
	assert.Equal(t, def.Regions[domain.RegionAsia].AudiencePerception, c.Regions[domain.RegionAsia].AudiencePerception)
	assert.Equal(t, "busy", c.Metadata["mood"])
}

func TestLoad_RejectsUnknownRegion(t *testing.T) {
	path := writeCatalog(t, `
regions:
  Africa:
    audiencePerception: hello
`)
	_, err := Load(path)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestLoad_RejectsUnknownMetadata(t *testing.T) {
	path := writeCatalog(t, "metadata:\n  altitude: high\n")
	_, err := Load(path)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeCatalog(t, "regions: [not, a, map]"))
	assert.Error(t, err)
}

func TestNarrate_ReturnsCopies(t *testing.T) {
	c := Default()
	n := c.Narrate(domain.ImageDescriptor{Name: "fox.jpg"})
	n.Metadata["mood"] = "angry"
	n.RegionalAnalysis[domain.RegionAsia] = domain.RegionalInsight{}

	assert.Equal(t, "peaceful, natural", c.Metadata["mood"])
	assert.NotEmpty(t, c.Regions[domain.RegionAsia].AudiencePerception)
	assert.Equal(t, "Image quality is excellent", n.Praise)
}

func TestYAML_RoundTripsThroughLoad(t *testing.T) {
	c := Default()
	c.Metadata["season"] = "winter"
	data, err := c.YAML()
	require.NoError(t, err)

	loaded, err := Load(writeCatalog(t, string(data)))
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}
