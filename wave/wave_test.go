package wave

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/getcharzp/speech-addon"
	"github.com/getcharzp/speech-addon/rawfile"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeFixture 使用 go-audio 编码器生成 PCM WAV 文件
func writeFixture(t *testing.T, sampleRate, numChans, bitDepth int, data []int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("创建文件失败: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, bitDepth, numChans, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: numChans, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("写入 PCM 失败: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("关闭编码器失败: %v", err)
	}
	return path
}

func assertSamples(t *testing.T, got, want []float32, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("采样数 = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > tol {
			t.Errorf("samples[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestReadWave16Bit(t *testing.T) {
	path := writeFixture(t, 16000, 1, 16, []int{0, 16384, -16384, 32767, -32768})

	w, err := ReadWave(path)
	if err != nil {
		t.Fatalf("ReadWave 出错: %v", err)
	}
	if w.SampleRate != 16000 {
		t.Errorf("SampleRate = %d, want 16000", w.SampleRate)
	}
	assertSamples(t, w.Samples, []float32{0, 0.5, -0.5, 32767.0 / 32768.0, -1}, 1e-6)
}

func TestReadWave24Bit(t *testing.T) {
	path := writeFixture(t, 44100, 1, 24, []int{4194304, -4194304, 0})

	w, err := ReadWave(path)
	if err != nil {
		t.Fatalf("ReadWave 出错: %v", err)
	}
	if w.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", w.SampleRate)
	}
	assertSamples(t, w.Samples, []float32{0.5, -0.5, 0}, 1e-6)
}

func TestReadWave8Bit(t *testing.T) {
	// 8 位 PCM 为无符号数, 128 为零点
	path := writeFixture(t, 8000, 1, 8, []int{128, 192, 64, 255, 0})

	w, err := ReadWave(path)
	if err != nil {
		t.Fatalf("ReadWave 出错: %v", err)
	}
	assertSamples(t, w.Samples, []float32{0, 0.5, -0.5, 127.0 / 128.0, -1}, 1e-6)
}

func TestReadWave32Bit(t *testing.T) {
	path := writeFixture(t, 48000, 1, 32, []int{1 << 30, -(1 << 30), math.MaxInt32, math.MinInt32})

	w, err := ReadWave(path)
	if err != nil {
		t.Fatalf("ReadWave 出错: %v", err)
	}
	if w.SampleRate != 48000 {
		t.Errorf("SampleRate = %d, want 48000", w.SampleRate)
	}
	assertSamples(t, w.Samples, []float32{0.5, -0.5, 1, -1}, 1e-6)
}

// extensibleWave 手工构造 WAVE_FORMAT_EXTENSIBLE 单声道文件
//
// fmtSize 为 18 时只写入 cbSize, 不包含扩展字段。
func extensibleWave(sub uint16, bits int, fmtSize int, pcm []byte) []byte {
	le := binary.LittleEndian
	blockAlign := bits / 8

	var fmtChunk bytes.Buffer
	fmtChunk.Write(le.AppendUint16(nil, wavFormatExtensible))
	fmtChunk.Write(le.AppendUint16(nil, 1))
	fmtChunk.Write(le.AppendUint32(nil, 16000))
	fmtChunk.Write(le.AppendUint32(nil, uint32(16000*blockAlign)))
	fmtChunk.Write(le.AppendUint16(nil, uint16(blockAlign)))
	fmtChunk.Write(le.AppendUint16(nil, uint16(bits)))
	if fmtSize == fmtExtensibleSize {
		fmtChunk.Write(le.AppendUint16(nil, 22))
		fmtChunk.Write(le.AppendUint16(nil, uint16(bits)))
		fmtChunk.Write(le.AppendUint32(nil, 0x4))
		fmtChunk.Write(le.AppendUint16(nil, sub))
		fmtChunk.Write([]byte{0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71})
	} else {
		fmtChunk.Write(le.AppendUint16(nil, 0))
	}

	var out bytes.Buffer
	out.WriteString("RIFF")
	out.Write(le.AppendUint32(nil, uint32(4+8+fmtChunk.Len()+8+len(pcm))))
	out.WriteString("WAVE")
	out.WriteString("fmt ")
	out.Write(le.AppendUint32(nil, uint32(fmtChunk.Len())))
	out.Write(fmtChunk.Bytes())
	out.WriteString("data")
	out.Write(le.AppendUint32(nil, uint32(len(pcm))))
	out.Write(pcm)
	return out.Bytes()
}

func TestReadWaveExtensible(t *testing.T) {
	pcm16 := []byte{0x00, 0x40, 0x00, 0xC0} // 16384, -16384

	w, err := ReadWaveBytes(extensibleWave(wavFormatPCM, 16, fmtExtensibleSize, pcm16))
	if err != nil {
		t.Fatalf("PCM 子格式应能解码: %v", err)
	}
	if w.SampleRate != 16000 {
		t.Errorf("SampleRate = %d, want 16000", w.SampleRate)
	}
	assertSamples(t, w.Samples, []float32{0.5, -0.5}, 1e-6)

	// IEEE float 子格式
	float32Data := le32(math.Float32bits(0.5), math.Float32bits(-0.5))
	if _, err := ReadWaveBytes(extensibleWave(3, 32, fmtExtensibleSize, float32Data)); !errors.Is(err, addon.ErrDecode) {
		t.Errorf("浮点子格式 err = %v, want ErrDecode", err)
	}

	if _, err := ReadWaveBytes(extensibleWave(wavFormatPCM, 16, 18, pcm16)); !errors.Is(err, addon.ErrDecode) {
		t.Errorf("缺少扩展字段 err = %v, want ErrDecode", err)
	}
}

func le32(vs ...uint32) []byte {
	var b []byte
	for _, v := range vs {
		b = binary.LittleEndian.AppendUint32(b, v)
	}
	return b
}

func TestReadWaveStereoKeepsFirstChannel(t *testing.T) {
	path := writeFixture(t, 8000, 2, 16, []int{16384, -1, -16384, -1, 0, -1})

	w, err := ReadWave(path)
	if err != nil {
		t.Fatalf("ReadWave 出错: %v", err)
	}
	assertSamples(t, w.Samples, []float32{0.5, -0.5, 0}, 1e-6)
}

func TestReadWaveErrors(t *testing.T) {
	if _, err := ReadWave(filepath.Join(t.TempDir(), "missing.wav")); !errors.Is(err, addon.ErrDecode) {
		t.Errorf("不存在的文件 err = %v, want ErrDecode", err)
	}
	if _, err := ReadWaveBytes([]byte("not a wave file at all, just some text padding")); !errors.Is(err, addon.ErrDecode) {
		t.Errorf("无效数据 err = %v, want ErrDecode", err)
	}
	if _, err := ReadWaveBytes(nil); !errors.Is(err, addon.ErrDecode) {
		t.Errorf("空数据 err = %v, want ErrDecode", err)
	}

	missing := filepath.Join(t.TempDir(), "missing.wav")
	_, err := ReadWave(missing)
	if err == nil || !strings.HasPrefix(err.Error(), "Failed to read '"+missing+"'") {
		t.Errorf("错误信息 = %v", err)
	}
}

func TestReadWaveFrom(t *testing.T) {
	data, err := os.ReadFile(writeFixture(t, 16000, 1, 16, []int{16384, -16384}))
	if err != nil {
		t.Fatal(err)
	}
	mgr := rawfile.NewFSManager(fstest.MapFS{
		"sherpa/test.wav": &fstest.MapFile{Data: data},
	})

	w, err := ReadWaveFrom(mgr, "sherpa/test.wav")
	if err != nil {
		t.Fatalf("ReadWaveFrom 出错: %v", err)
	}
	assertSamples(t, w.Samples, []float32{0.5, -0.5}, 1e-6)

	if _, err := ReadWaveFrom(mgr, "sherpa/missing.wav"); !errors.Is(err, addon.ErrResourceNotFound) {
		t.Errorf("不存在的资源 err = %v, want ErrResourceNotFound", err)
	}
}

func TestWaveBytesRoundTrip(t *testing.T) {
	src := &Wave{Samples: []float32{0, 0.25, -0.25, 0.5, -0.5}, SampleRate: 16000}

	data, err := src.Bytes()
	if err != nil {
		t.Fatalf("Bytes 出错: %v", err)
	}
	w, err := ReadWaveBytes(data)
	if err != nil {
		t.Fatalf("ReadWaveBytes 出错: %v", err)
	}
	if w.SampleRate != src.SampleRate {
		t.Errorf("SampleRate = %d, want %d", w.SampleRate, src.SampleRate)
	}
	assertSamples(t, w.Samples, src.Samples, 1e-3)

	if _, err := (&Wave{}).Bytes(); !errors.Is(err, addon.ErrInvalidArgument) {
		t.Errorf("采样率为 0 err = %v", err)
	}
}

func TestWriteWave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.wav")
	src := &Wave{Samples: []float32{0.5, -0.5}, SampleRate: 22050}

	if err := WriteWave(path, src); err != nil {
		t.Fatalf("WriteWave 出错: %v", err)
	}
	w, err := ReadWave(path)
	if err != nil {
		t.Fatalf("ReadWave 出错: %v", err)
	}
	if w.SampleRate != 22050 {
		t.Errorf("SampleRate = %d", w.SampleRate)
	}
	assertSamples(t, w.Samples, src.Samples, 1e-3)
}

func TestResample(t *testing.T) {
	const n = 4000
	data := make([]int, n)
	for i := range data {
		data[i] = int(8000 * math.Sin(2*math.Pi*440*float64(i)/8000))
	}
	raw, err := os.ReadFile(writeFixture(t, 8000, 1, 16, data))
	if err != nil {
		t.Fatal(err)
	}

	w, err := Resample(raw, 16000)
	if err != nil {
		t.Fatalf("Resample 出错: %v", err)
	}
	if w.SampleRate != 16000 {
		t.Errorf("SampleRate = %d, want 16000", w.SampleRate)
	}
	if got, want := float64(len(w.Samples)), float64(2*n); math.Abs(got-want)/want > 0.05 {
		t.Errorf("采样数 = %v, want ~%v", got, want)
	}

	if _, err := Resample(raw, 0); !errors.Is(err, addon.ErrInvalidArgument) {
		t.Errorf("采样率为 0 err = %v", err)
	}
}

func TestDuration(t *testing.T) {
	w := &Wave{Samples: make([]float32, 24000), SampleRate: 16000}
	if got := w.Duration(); got != 1500*time.Millisecond {
		t.Errorf("Duration = %v, want 1.5s", got)
	}
	if got := (&Wave{}).Duration(); got != 0 {
		t.Errorf("Duration = %v, want 0", got)
	}
}
