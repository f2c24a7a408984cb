// Package wave 读取 WAV 文件并转换为 float32 采样
package wave

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/getcharzp/speech-addon"
	"github.com/getcharzp/speech-addon/rawfile"
	"github.com/go-audio/riff"
	"github.com/go-audio/wav"
	"github.com/up-zero/gotool/fileutil"
	"github.com/up-zero/gotool/mediautil"
)

// Wave 解码后的音频
type Wave struct {
	// Samples 单声道采样, 范围 [-1, 1]
	Samples []float32
	// SampleRate 采样率
	SampleRate int
}

// ReadWave 读取 WAV 文件
//
// 仅支持 PCM 整数格式 (8/16/24/32 位)，多声道时只保留第一个声道。
//
// # Params:
//
//	filename: 音频文件路径
func ReadWave(filename string) (*Wave, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, decodeError(filename, err)
	}
	defer f.Close()
	return decode(f, filename)
}

// ReadWaveBytes 读取 WAV 字节流
//
// # Params:
//
//	wavBytes: 音频文件字节流
func ReadWaveBytes(wavBytes []byte) (*Wave, error) {
	return decode(bytes.NewReader(wavBytes), "<bytes>")
}

// ReadWaveFrom 从应用资源中读取 WAV 文件
//
// # Params:
//
//	mgr: 资源管理器, 仅借用
//	name: 资源文件路径
func ReadWaveFrom(mgr rawfile.Manager, name string) (*Wave, error) {
	data, err := rawfile.ReadFile(mgr, name)
	if err != nil {
		return nil, err
	}
	return decode(bytes.NewReader(data), name)
}

// Resample 将 WAV 字节流转换为指定采样率的单声道音频
//
// # Params:
//
//	wavBytes: 音频文件字节流
//	sampleRate: 目标采样率, 例如 16000
func Resample(wavBytes []byte, sampleRate int) (*Wave, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("无效的采样率 %d: %w", sampleRate, addon.ErrInvalidArgument)
	}

	targetBytes, err := mediautil.ReformatWavBytes(wavBytes, sampleRate, channels, bitsPerSample)
	if err != nil {
		return nil, fmt.Errorf("无法格式化 WAV 文件: %w: %w", addon.ErrDecode, err)
	}
	if len(targetBytes) < wavHeaderSize {
		return nil, fmt.Errorf("格式化后的 WAV 数据过短: %w", addon.ErrDecode)
	}

	samples, err := mediautil.PcmBytesToFloat32(targetBytes[wavHeaderSize:], bitsPerSample)
	if err != nil {
		return nil, fmt.Errorf("无法将 PCM 数据转换为 float32: %w: %w", addon.ErrDecode, err)
	}
	return &Wave{Samples: samples, SampleRate: sampleRate}, nil
}

// Bytes 导出为 16 位单声道 WAV 字节流
func (w *Wave) Bytes() ([]byte, error) {
	if w.SampleRate <= 0 {
		return nil, fmt.Errorf("无效的采样率 %d: %w", w.SampleRate, addon.ErrInvalidArgument)
	}
	return mediautil.Float32ToWavBytes(w.Samples, w.SampleRate, channels, bitsPerSample)
}

// Duration 音频时长
func (w *Wave) Duration() time.Duration {
	if w.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(w.Samples)) * time.Second / time.Duration(w.SampleRate)
}

// WriteWave 将音频保存为 WAV 文件
func WriteWave(filename string, w *Wave) error {
	data, err := w.Bytes()
	if err != nil {
		return err
	}
	if err := fileutil.FileSave(filename, data); err != nil {
		return fmt.Errorf("保存 WAV 失败: %w", err)
	}
	return nil
}

// decode 解码 PCM 数据并归一化到 [-1, 1]
func decode(r io.ReadSeeker, name string) (*Wave, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, decodeError(name, d.Err())
	}
	switch d.WavAudioFormat {
	case wavFormatPCM:
	case wavFormatExtensible:
		sub, err := subFormat(r)
		if err != nil {
			return nil, decodeError(name, err)
		}
		if sub != wavFormatPCM {
			return nil, decodeError(name, fmt.Errorf("不支持的子格式 %d", sub))
		}
	default:
		return nil, decodeError(name, fmt.Errorf("不支持的音频格式 %d", d.WavAudioFormat))
	}

	bitDepth := int(d.BitDepth)
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, decodeError(name, fmt.Errorf("不支持的采样位数 %d", bitDepth))
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, decodeError(name, err)
	}

	numChans := int(d.NumChans)
	scale := float32(int64(1) << (bitDepth - 1))
	samples := make([]float32, len(buf.Data)/numChans)
	for i := range samples {
		v := buf.Data[i*numChans]
		if bitDepth == 8 {
			// 8 位 PCM 为无符号数
			v -= 128
		}
		samples[i] = float32(v) / scale
	}

	return &Wave{Samples: samples, SampleRate: int(d.SampleRate)}, nil
}

// subFormat 读取 WAVE_FORMAT_EXTENSIBLE 中子格式 GUID 的前两个字节
//
// 读取完成后 r 恢复到调用前的位置。
func subFormat(r io.ReadSeeker) (uint16, error) {
	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	defer r.Seek(pos, io.SeekStart)

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	p := riff.New(r)
	if err := p.ParseHeaders(); err != nil {
		return 0, err
	}
	for {
		ch, err := p.NextChunk()
		if err != nil {
			return 0, fmt.Errorf("未找到 fmt 块: %w", err)
		}
		if ch.ID != riff.FmtID {
			ch.Drain()
			continue
		}
		if ch.Size < fmtExtensibleSize {
			return 0, fmt.Errorf("fmt 扩展块长度 %d 不足 %d", ch.Size, fmtExtensibleSize)
		}
		var ext fmtExtensible
		if err := ch.ReadLE(&ext); err != nil {
			return 0, fmt.Errorf("读取 fmt 扩展块失败: %w", err)
		}
		return ext.SubFormat, nil
	}
}

// decodeError 错误信息保持英文, 脚本侧可能依赖该文本
func decodeError(name string, err error) error {
	if err == nil {
		return fmt.Errorf("Failed to read '%s': %w", name, addon.ErrDecode)
	}
	return fmt.Errorf("Failed to read '%s': %w: %w", name, addon.ErrDecode, err)
}
