package packet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/embervale/ember/pkg/protocol"
)

func TestFinishConfigurationRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FinishConfiguration{}.Write(&buf))
	_, err := ReadFinishConfiguration(&buf)
	require.NoError(t, err)
}

func TestAcknowledgeFinishConfigurationRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, AcknowledgeFinishConfiguration{}.Write(&buf))
	_, err := ReadAcknowledgeFinishConfiguration(&buf)
	require.NoError(t, err)
}

func TestRegistryDataRoundTripEmpty(t *testing.T) {
	p := RegistryData{RegistryID: protocol.NewIdentifier("dimension_type")}
	var buf bytes.Buffer
	require.NoError(t, p.Write(&buf))

	got, err := ReadRegistryData(&buf)
	require.NoError(t, err)
	require.Equal(t, p.RegistryID, got.RegistryID)
	require.Empty(t, got.Entries)
}

func TestRegistryDataRoundTripWithEntries(t *testing.T) {
	p := RegistryData{
		RegistryID: protocol.NewIdentifier("dimension_type"),
		Entries: []RegistryEntry{
			{EntryID: protocol.NewIdentifier("overworld"), Data: []byte{0x0A, 0x00}},
			{EntryID: protocol.NewIdentifier("the_nether")}, // no data
		},
	}
	var buf bytes.Buffer
	require.NoError(t, p.Write(&buf))

	got, err := ReadRegistryData(&buf)
	require.NoError(t, err)
	require.Equal(t, p, got)
}
