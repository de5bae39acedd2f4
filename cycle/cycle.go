package cycle

// PacketReadingCycle, FrameDecodingCycle, and BlockRenderingCycle are
// the three named gates the pipeline's loops begin/complete once per
// iteration, giving a shutdown joiner a bounded-time signal that a
// loop has left its critical section.
type PacketReadingCycle struct{ *Gate }

func NewPacketReadingCycle() PacketReadingCycle { return PacketReadingCycle{New()} }

type FrameDecodingCycle struct{ *Gate }

func NewFrameDecodingCycle() FrameDecodingCycle { return FrameDecodingCycle{New()} }

type BlockRenderingCycle struct{ *Gate }

func NewBlockRenderingCycle() BlockRenderingCycle { return BlockRenderingCycle{New()} }
