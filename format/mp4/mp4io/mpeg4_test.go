package mp4io

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ugparu/spatialmedia/utils"
	"github.com/ugparu/spatialmedia/utils/bits/pio"
)

var testPayload = []byte("audio samples")

func TestLoadMpeg4(t *testing.T) {
	t.Parallel()

	data := audioFile(testPayload, soundEntry("mp4a", 4))
	m, err := LoadMpeg4(bytes.NewReader(data))
	require.NoError(t, err)

	require.Equal(t, FTYP, m.Ftyp().Tag())
	require.Equal(t, MOOV, m.Moov().Tag())
	require.Equal(t, MDAT, m.FirstMdat().Tag())
	require.Nil(t, m.Free())
	require.Equal(t, int64(len(data)-len(testPayload)), m.FirstMdatPos)
	require.Equal(t, int64(len(data)), m.ContentSize())
	require.Equal(t, int64(0), m.HeaderSize())
	require.Equal(t, "mpeg4", m.String())
}

func TestLoadMpeg4Errors(t *testing.T) {
	t.Parallel()

	ftyp := box("ftyp", []byte("isom"), u32(0))
	moov := box("moov", box("mvhd", make([]byte, 100)))
	mdat := box("mdat", testPayload)

	tests := []struct {
		name    string
		data    []byte
		missing string
	}{
		{name: "no_moov", data: cat(ftyp, mdat), missing: "moov"},
		{name: "no_mdat", data: cat(ftyp, moov), missing: "mdat"},
		{name: "empty", data: nil},
		{name: "corrupt", data: cat(ftyp, u32(500), []byte("moov"))},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := LoadMpeg4(bytes.NewReader(tt.data))
			require.Nil(t, m)
			require.Error(t, err)
			if tt.missing != "" {
				var missing *utils.MissingBoxError
				require.ErrorAs(t, err, &missing)
				require.Equal(t, tt.missing, missing.Tag)
			}
		})
	}
}

func TestLoadMpeg4FirstMatch(t *testing.T) {
	t.Parallel()

	data := cat(
		box("ftyp", []byte("isom"), u32(0)),
		box("free", make([]byte, 2)),
		box("mdat", []byte("first")),
		box("moov", box("mvhd", make([]byte, 100))),
		box("free", make([]byte, 6)),
		box("mdat", []byte("second")),
	)
	m, err := LoadMpeg4(bytes.NewReader(data))
	require.NoError(t, err)

	require.Equal(t, int64(2), m.Free().ContentSize())
	require.Equal(t, int64(5), m.FirstMdat().ContentSize())
	require.Equal(t, int64(16+10+HeaderSize), m.FirstMdatPos)
}

func TestMpeg4Delta(t *testing.T) {
	t.Parallel()

	data := audioFile(testPayload, soundEntry("mp4a", 4))
	m, err := LoadMpeg4(bytes.NewReader(data))
	require.NoError(t, err)

	delta, err := m.Delta()
	require.NoError(t, err)
	require.Equal(t, int64(0), delta)

	require.NoError(t, m.Insert(1, NewRawBox(StringToTag("skip"), make([]byte, 20))))
	delta, err = m.Delta()
	require.NoError(t, err)
	require.Equal(t, int64(28), delta)
	require.Equal(t, MOOV, m.Moov().Tag())
	require.Equal(t, int64(len(data)-len(testPayload)), m.FirstMdatPos)

	require.Equal(t, 1, m.Remove(MDAT))
	require.Nil(t, m.FirstMdat())
	_, err = m.Delta()
	var missing *utils.MissingBoxError
	require.ErrorAs(t, err, &missing)
}

func TestMpeg4SaveUnchanged(t *testing.T) {
	t.Parallel()

	data := audioFile(testPayload, soundEntry("mp4a", 4, box("esds", make([]byte, 20))))
	in := bytes.NewReader(data)
	m, err := LoadMpeg4(in)
	require.NoError(t, err)

	out := new(bytes.Buffer)
	require.NoError(t, m.Save(in, out, 0))
	require.Equal(t, data, out.Bytes())
}

func TestMpeg4SaveShiftsChunkOffsets(t *testing.T) {
	t.Parallel()

	data := audioFile(testPayload, soundEntry("mp4a", 4))
	in := bytes.NewReader(data)
	m, err := LoadMpeg4(in)
	require.NoError(t, err)

	entry := FindChildren(m.Moov(), MP4A).(*Container)
	require.NoError(t, entry.Add(NewSA3DBox(4)))

	out := new(bytes.Buffer)
	require.NoError(t, m.Save(in, out, 0))
	require.Equal(t, len(data)+36, out.Len())

	saved, err := LoadMpeg4(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	require.Equal(t, m.FirstMdatPos+36, saved.FirstMdatPos)

	stcoBox := FindChildren(saved.Moov(), STCO)
	require.NotNil(t, stcoBox)
	entryPos := stcoBox.Pos() + stcoBox.HeaderSize() + 8
	offset := int64(pio.U32BE(out.Bytes()[entryPos:]))
	require.Equal(t, saved.FirstMdatPos, offset)
	require.Equal(t, testPayload, out.Bytes()[offset:offset+int64(len(testPayload))])

	sa3dBox, ok := FindChildren(saved.Moov(), SA3D).(*SA3DBox)
	require.True(t, ok)
	require.Equal(t, uint32(4), sa3dBox.NumChannels)
}

func TestMpeg4Merge(t *testing.T) {
	t.Parallel()

	data := audioFile(testPayload, soundEntry("mp4a", 4))
	m, err := LoadMpeg4(bytes.NewReader(data))
	require.NoError(t, err)

	err = m.Merge(NewContainer(MOOV, nil))
	var unsupported *utils.UnsupportedError
	require.ErrorAs(t, err, &unsupported)
	require.Equal(t, "merge", unsupported.Operation)
}

func TestMpeg4AddReidentifies(t *testing.T) {
	t.Parallel()

	data := audioFile(testPayload, soundEntry("mp4a", 4))
	m, err := LoadMpeg4(bytes.NewReader(data))
	require.NoError(t, err)
	require.Nil(t, m.Free())

	require.NoError(t, m.Add(NewRawBox(FREE, make([]byte, 4))))
	require.NotNil(t, m.Free())
	require.Equal(t, int64(4), m.Free().ContentSize())
}

func TestMpeg4PrintStructure(t *testing.T) {
	t.Parallel()

	data := cat(
		box("ftyp", []byte("isom"), u32(0)),
		box("moov", box("mvhd", make([]byte, 4)), box("trak", box("tkhd", make([]byte, 4)))),
		box("mdat", make([]byte, 4)),
	)
	m, err := LoadMpeg4(bytes.NewReader(data))
	require.NoError(t, err)

	out := new(bytes.Buffer)
	m.PrintStructure(out, "")
	require.Equal(t, "mpeg4 [68]\n"+
		" ├── ftyp [8, 8]\n"+
		" ├── moov [8, 32]\n"+
		" │   ├── mvhd [8, 4]\n"+
		" │   └── trak [8, 12]\n"+
		" │       └── tkhd [8, 4]\n"+
		" └── mdat [8, 4]\n", out.String())
}
