package wave

const (
	// channels 导出 WAV 的声道数
	channels = 1
	// bitsPerSample 导出 WAV 的采样位数
	bitsPerSample = 16
	// wavHeaderSize 标准 WAV 头长度
	wavHeaderSize = 44

	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE

	// fmtExtensibleSize WAVE_FORMAT_EXTENSIBLE 的 fmt 块长度
	fmtExtensibleSize = 40
)

// fmtExtensible fmt 块中读取子格式所需的部分
type fmtExtensible struct {
	Common      [16]byte
	CbSize      uint16
	ValidBits   uint16
	ChannelMask uint32
	SubFormat   uint16
}
