package imstiff_test

import (
	"testing"

	"github.com/mdouchement/imstiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractComment(t *testing.T) {
	store := imstiff.NewStore()
	m, err := imstiff.ExtractComment("[Info]\nDescription=Test\nLSMEmissionWavelength=0\nLSMEmissionWavelength=488\nName=ChanA\n", "/data/stack.ims", store)
	require.NoError(t, err)

	require.NotNil(t, m.Description)
	assert.Equal(t, "Test", *m.Description)
	assert.Equal(t, []int{488}, m.EmissionWavelengths)
	assert.Empty(t, m.ExcitationWavelengths)
	assert.Equal(t, []string{"ChanA"}, m.ChannelNames)
	assert.Nil(t, m.AcquiredDate)

	assert.Equal(t, []imstiff.KeyValue{
		{Key: "Description", Value: "Test"},
		{Key: "LSMEmissionWavelength", Value: "0"},
		{Key: "LSMEmissionWavelength", Value: "488"},
		{Key: "Name", Value: "ChanA"},
	}, m.Pairs)
	assert.Equal(t, []imstiff.KeyValue{
		{Key: "Description", Value: "Test"},
		{Key: "LSMEmissionWavelength", Value: "488"},
		{Key: "Name", Value: "ChanA"},
	}, store.GlobalEntries())
}

func TestExtractComment_RecordingDate(t *testing.T) {
	m, err := imstiff.ExtractComment("[Info]\nRecordingDate=2020-01-02 03:04:05.678\n", "stack.ims", nil)
	require.NoError(t, err)
	require.NotNil(t, m.AcquiredDate)
	assert.Equal(t, "2020-01-02T03:04:05", *m.AcquiredDate)

	m, err = imstiff.ExtractComment("[Info]\nRecordingDate=2020-01-02 03:04:05\nRecordingDate=2021-05-06 07:08:09.1\n", "stack.ims", nil)
	require.NoError(t, err)
	assert.Equal(t, "2021-05-06T07:08:09", *m.AcquiredDate, "last occurrence wins")
	assert.Len(t, m.Pairs, 2)
}

func TestExtractComment_NotINI(t *testing.T) {
	for _, comment := range []string{"", "Description=Test", "Imaris\n[Info]\nName=A"} {
		store := imstiff.NewStore()
		store.AddGlobal("Comment", comment)

		m, err := imstiff.ExtractComment(comment, "stack.ims", store)
		require.NoError(t, err)
		assert.Equal(t, &imstiff.CommentMetadata{}, m)
		assert.Equal(t, []imstiff.KeyValue{{Key: "Comment", Value: comment}}, store.GlobalEntries())
	}
}

func TestExtractComment_LeadingWhitespace(t *testing.T) {
	m, err := imstiff.ExtractComment("  \n[Info]\nDescription = spaced \n", "stack.ims", nil)
	require.NoError(t, err)
	require.NotNil(t, m.Description)
	assert.Equal(t, "spaced", *m.Description)
}

func TestExtractComment_MalformedLine(t *testing.T) {
	store := imstiff.NewStore()
	store.AddGlobal("Comment", "raw")

	m, err := imstiff.ExtractComment("[Info]\ngarbage-no-equals\nKey=a=b\r\n", "stack.ims", store)
	require.NoError(t, err)
	assert.Equal(t, []imstiff.KeyValue{{Key: "Key", Value: "a=b"}}, m.Pairs)
	assert.Equal(t, []imstiff.KeyValue{{Key: "Key", Value: "a=b"}}, store.GlobalEntries())
}

func TestExtractComment_InvalidWavelength(t *testing.T) {
	for _, value := range []string{"488nm", "-1", "4.5"} {
		_, err := imstiff.ExtractComment("[Info]\nLSMEmissionWavelength="+value+"\n", "stack.ims", nil)
		assert.ErrorIs(t, err, imstiff.ErrInvalidWavelength, value)
	}

	m, err := imstiff.ExtractComment("[Info]\nLSMExcitationWavelength=\nLSMExcitationWavelength=0\n", "stack.ims", nil)
	require.NoError(t, err)
	assert.Empty(t, m.ExcitationWavelengths)
}

func TestExtractComment_FileName(t *testing.T) {
	m, err := imstiff.ExtractComment("[Info]\nName=stack.ims\nName=\nName=Cy5\n", "/data/stack.ims", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cy5"}, m.ChannelNames)
}

func TestExtractComment_Idempotent(t *testing.T) {
	m1, err := imstiff.ExtractComment(comment, "sample.ims", imstiff.NewStore())
	require.NoError(t, err)
	m2, err := imstiff.ExtractComment(comment, "sample.ims", imstiff.NewStore())
	require.NoError(t, err)
	assert.Equal(t, m1, m2)
}

func TestCommentMetadata_Channels(t *testing.T) {
	m := &imstiff.CommentMetadata{
		EmissionWavelengths:   []int{461, 509, 670},
		ExcitationWavelengths: []int{358},
		ChannelNames:          []string{"DAPI", "GFP"},
	}

	channels := m.Channels()
	require.Len(t, channels, 3)
	assert.Equal(t, 358, *channels[0].ExcitationWavelength)
	assert.Nil(t, channels[1].ExcitationWavelength)
	assert.Equal(t, "GFP", *channels[1].Name)
	assert.Equal(t, 670, *channels[2].EmissionWavelength)
	assert.Nil(t, channels[2].Name)

	store := imstiff.NewStore()
	m.Populate(store)
	assert.Equal(t, channels, store.Channels)
	assert.Nil(t, store.Image.Description)
}
