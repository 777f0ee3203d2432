package csvtable

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/moffa90/go-radiomem/channel"
	"github.com/moffa90/go-radiomem/codec"
	"github.com/moffa90/go-radiomem/memory"
)

const header = "channel_number,frequency_hz,offset_hz,mode,tone_mode,tone_value,name,flags\n"

var exampleRecord = channel.Record{
	Number:    5,
	Frequency: 146520000,
	Offset:    600000,
	Mode:      channel.ModeFM,
	Tone:      channel.ToneCTCSS,
	ToneValue: 885,
	Name:      "W1ABC",
}

func TestExampleRowRoundTrip(t *testing.T) {
	input := header + `5,146520000,600000,FM,CTCSS,885,"W1ABC",0x00` + "\n"

	records, err := ParseReader(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, exampleRecord, records[0])

	var out bytes.Buffer
	require.NoError(t, Write(&out, records))
	assert.Equal(t, input, out.String())
}

func TestWriteEmptySlot(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Write(&out, []channel.Record{exampleRecord, channel.Empty(2)}))

	assert.Equal(t, header+
		`2,0,0,,NONE,0,"",0x00`+"\n"+
		`5,146520000,600000,FM,CTCSS,885,"W1ABC",0x00`+"\n",
		out.String())
}

func TestNamesWithSpecialCharacters(t *testing.T) {
	names := []string{
		`He said "hi"`,
		"A,B",
		"two\nlines",
		"  padded  ",
		"",
	}

	var records []channel.Record
	for i, name := range names {
		r := exampleRecord
		r.Number = i + 1
		r.Name = name
		records = append(records, r)
	}

	var out bytes.Buffer
	require.NoError(t, Write(&out, records))
	assert.Contains(t, out.String(), `"He said ""hi"""`)

	back, err := ParseReader(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, records, back)

	var again bytes.Buffer
	require.NoError(t, Write(&again, back))
	assert.Equal(t, out.String(), again.String())
}

func TestImageWithGapsAndSpecialNames(t *testing.T) {
	img := memory.New(codec.Reference)
	for n, name := range map[int]string{1: "A,B", 3: `He said "hi"`, 5: "x\ny"} {
		r := exampleRecord
		r.Number = n
		r.Name = name
		require.NoError(t, img.Set(r))
	}

	var out bytes.Buffer
	require.NoError(t, Write(&out, img.Records()))

	back, err := ParseReader(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)

	restored, err := memory.FromRecords(codec.Reference, back)
	require.NoError(t, err)
	assert.True(t, img.Equal(restored))
	assert.Equal(t, []int{1, 3, 5}, restored.Channels())
	assert.Equal(t, img.Records(), back)
}

func TestClarifierColumn(t *testing.T) {
	clarified := exampleRecord
	clarified.Number = 7
	clarified.Clarifier = -120
	clarified.Flags = channel.FlagRxClarifier

	var out bytes.Buffer
	require.NoError(t, Write(&out, []channel.Record{exampleRecord, clarified, channel.Empty(9)}))

	assert.Equal(t, strings.TrimSuffix(header, "\n")+",clarifier_hz\n"+
		`5,146520000,600000,FM,CTCSS,885,"W1ABC",0x00,0`+"\n"+
		`7,146520000,600000,FM,CTCSS,885,"W1ABC",0x02,-120`+"\n"+
		`9,0,0,,NONE,0,"",0x00,0`+"\n",
		out.String())

	back, err := ParseReader(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []channel.Record{exampleRecord, clarified, channel.Empty(9)}, back)

	_, err = ParseReader(strings.NewReader("channel_number,frequency_hz,mode,clarifier_hz\n1,145500000,FM,12000\n"))
	var ife *InvalidFieldValueError
	require.ErrorAs(t, err, &ife)
	assert.Equal(t, ColumnClarifier, ife.Column)
	assert.Equal(t, "12000", ife.Value)
}

func TestParseReaderSortsAndDefaults(t *testing.T) {
	input := "frequency_hz,channel_number,mode\n" +
		"0,9,\n" +
		"145500000,3,FM\n"

	records, err := ParseReader(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []channel.Record{
		{Number: 3, Frequency: 145500000, Mode: channel.ModeFM},
		channel.Empty(9),
	}, records)
}

func TestParseReaderErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, err error)
	}{
		{
			name:  "empty file",
			input: "",
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "missing header row")
			},
		},
		{
			name:  "missing channel_number column",
			input: "frequency_hz,mode\n145500000,FM\n",
			check: func(t *testing.T, err error) {
				var mce *MissingRequiredColumnError
				require.ErrorAs(t, err, &mce)
				assert.Equal(t, ColumnChannelNumber, mce.Column)
			},
		},
		{
			name:  "unknown column in strict mode",
			input: "channel_number,frequency_hz,clarifier_hz\n1,145500000,0\n",
			check: func(t *testing.T, err error) {
				var uce *UnknownColumnError
				require.ErrorAs(t, err, &uce)
				assert.Equal(t, "clarifier_hz", uce.Column)
				assert.Equal(t, 3, uce.Position)
			},
		},
		{
			name:  "duplicate channel number",
			input: header + "1,145500000,0,FM,NONE,0,\"A\",0x00\n1,145600000,0,FM,NONE,0,\"B\",0x00\n",
			check: func(t *testing.T, err error) {
				var dce *DuplicateChannelNumberError
				require.ErrorAs(t, err, &dce)
				assert.Equal(t, 1, dce.Channel)
				assert.Equal(t, 2, dce.FirstRow)
				assert.Equal(t, 3, dce.Row)
			},
		},
		{
			name:  "frequency not a number",
			input: header + "1,14550000O,0,FM,NONE,0,\"A\",0x00\n",
			check: func(t *testing.T, err error) {
				var ife *InvalidFieldValueError
				require.ErrorAs(t, err, &ife)
				assert.Equal(t, ColumnFrequency, ife.Column)
				assert.Equal(t, 2, ife.Row)
				assert.Equal(t, "14550000O", ife.Value)
			},
		},
		{
			name:  "unknown mode",
			input: header + "1,145500000,0,SSTV,NONE,0,\"A\",0x00\n",
			check: func(t *testing.T, err error) {
				var ife *InvalidFieldValueError
				require.ErrorAs(t, err, &ife)
				assert.Equal(t, ColumnMode, ife.Column)
			},
		},
		{
			name:  "tone not in table",
			input: header + "1,145500000,0,FM,CTCSS,886,\"A\",0x00\n",
			check: func(t *testing.T, err error) {
				var ife *InvalidFieldValueError
				require.ErrorAs(t, err, &ife)
				assert.Equal(t, ColumnToneValue, ife.Column)
				assert.Equal(t, "886", ife.Value)
			},
		},
		{
			name:  "channel zero",
			input: header + "0,0,0,,NONE,0,\"\",0x00\n",
			check: func(t *testing.T, err error) {
				var ife *InvalidFieldValueError
				require.ErrorAs(t, err, &ife)
				assert.Equal(t, ColumnChannelNumber, ife.Column)
			},
		},
		{
			name:  "wrong field count",
			input: header + "1,145500000\n",
			check: func(t *testing.T, err error) {
				var se *SyntaxError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, 2, se.Row)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReader(strings.NewReader(tt.input))
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestLenientIgnoresUnknownColumns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger := zap.New(core).Sugar()

	input := "channel_number,frequency_hz,mode,clarifier_hz\n1,145500000,FM,120\n"
	records, err := ParseReader(strings.NewReader(input), WithLenient(logger))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, uint32(145500000), records[0].Frequency)

	warnings := logs.FilterMessage("ignoring unknown column").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "clarifier_hz", warnings[0].ContextMap()["column"])
}

func TestHeaderWithBOM(t *testing.T) {
	input := "\uFEFF" + header + `5,146520000,600000,FM,CTCSS,885,"W1ABC",0x00` + "\n"
	records, err := ParseReader(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []channel.Record{exampleRecord}, records)
}

func TestWriteRejectsInvalidRecords(t *testing.T) {
	bad := exampleRecord
	bad.ToneValue = 1

	var out bytes.Buffer
	assert.Error(t, Write(&out, []channel.Record{bad}))
	assert.Error(t, Write(&out, []channel.Record{exampleRecord, exampleRecord}))
}

func TestCheckCollectsEveryProblem(t *testing.T) {
	input := header +
		"1,145500000,0,FM,NONE,0,\"OK\",0x00\n" +
		"2,145500000,0,XX,NONE,0,\"bad mode\",0x00\n" +
		"3,145500000,0,FM,DCS,999,\"bad dcs\",0x00\n" +
		"1,145600000,0,FM,NONE,0,\"dup\",0x00\n" +
		"4,0,0,,NONE,0,\"\",0x00\n" +
		"5,145500000\n"

	report, err := Check(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Valid)
	assert.Equal(t, 4, report.Invalid)
	assert.False(t, report.OK())

	var rows []int
	for _, p := range report.Problems {
		rows = append(rows, p.Row)
	}
	assert.Equal(t, []int{3, 4, 5, 7}, rows)
}

func TestCheckHeaderError(t *testing.T) {
	_, err := Check(strings.NewReader("name\n\"x\"\n"))
	var mce *MissingRequiredColumnError
	assert.ErrorAs(t, err, &mce)
}

func TestWriteFileAndParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.csv")
	records := []channel.Record{channel.Empty(1), exampleRecord}

	require.NoError(t, WriteFile(path, records))

	back, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, records, back)

	report, err := CheckFile(path)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, 2, report.Valid)

	_, err = Parse(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
