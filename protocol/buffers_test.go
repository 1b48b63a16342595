package protocol

import "testing"

func TestScratchOutput(t *testing.T) {
	scratch := NewScratchOutput()

	data1 := []byte{1, 2, 3}
	scratch.Output(data1)

	if scratch.CurPosition() != 3 {
		t.Errorf("Expected position 3, got %d", scratch.CurPosition())
	}

	data2 := []byte{4, 5}
	scratch.Output(data2)

	if scratch.CurPosition() != 5 {
		t.Errorf("Expected position 5, got %d", scratch.CurPosition())
	}

	// Test Update
	scratch.Update(0, 99)
	result := scratch.Result()
	if result[0] != 99 {
		t.Errorf("Expected first byte to be 99, got %d", result[0])
	}

	// Updates past the write position are ignored
	scratch.Update(10, 42)
	if scratch.CurPosition() != 5 {
		t.Errorf("Update past the end moved position to %d", scratch.CurPosition())
	}

	// Test DataSince
	since := scratch.DataSince(2)
	if len(since) != 3 || since[0] != 3 {
		t.Errorf("DataSince(2) failed: expected [3 4 5], got %v", since)
	}
	if scratch.DataSince(6) != nil {
		t.Error("DataSince past the end should be nil")
	}

	// Test Reset
	scratch.Reset()
	if scratch.CurPosition() != 0 || scratch.Free() != MessageMax {
		t.Errorf("After reset, expected empty buffer, got position %d", scratch.CurPosition())
	}
}

func TestScratchOutputFull(t *testing.T) {
	scratch := NewScratchOutput()
	scratch.Output(make([]byte, MessageMax-1))
	scratch.Output([]byte{1, 2, 3})

	if scratch.CurPosition() != MessageMax {
		t.Errorf("Expected position %d, got %d", MessageMax, scratch.CurPosition())
	}
	if scratch.Free() != 0 {
		t.Errorf("Expected no free space, got %d", scratch.Free())
	}
}

func TestFifoBuffer(t *testing.T) {
	fifo := NewFifoBuffer(10)

	if fifo.Available() != 0 {
		t.Errorf("Empty FIFO should have 0 available, got %d", fifo.Available())
	}
	if fifo.Free() != 10 {
		t.Errorf("Empty FIFO should have 10 free, got %d", fifo.Free())
	}

	// Write some data
	written := fifo.Write([]byte{1, 2, 3, 4, 5})
	if written != 5 {
		t.Errorf("Expected to write 5 bytes, wrote %d", written)
	}
	if fifo.Available() != 5 {
		t.Errorf("Expected 5 bytes available, got %d", fifo.Available())
	}

	// Test Pop
	fifo.Pop(3)
	data := fifo.Data()
	if len(data) != 2 || data[0] != 4 || data[1] != 5 {
		t.Errorf("After popping 3, expected [4 5], got %v", data)
	}

	// Popping more than available empties the buffer
	fifo.Pop(10)
	if fifo.Available() != 0 {
		t.Errorf("Expected empty FIFO, got %d available", fifo.Available())
	}

	// Writes stop at capacity
	fifo.Reset()
	written = fifo.Write(make([]byte, 12))
	if written != 10 {
		t.Errorf("Expected to write 10 bytes to capacity-10 FIFO, wrote %d", written)
	}
	if fifo.Free() != 0 {
		t.Errorf("Expected full FIFO, got %d free", fifo.Free())
	}
}

func TestFifoBufferWrapAround(t *testing.T) {
	fifo := NewFifoBuffer(5)

	fifo.Write([]byte{1, 2, 3, 4})
	fifo.Pop(2)

	// Write more (will wrap around)
	written := fifo.Write([]byte{5, 6, 7})
	if written != 3 {
		t.Errorf("Expected to write 3 bytes, wrote %d", written)
	}

	allData := fifo.Data()
	want := []byte{3, 4, 5, 6, 7}
	if len(allData) != len(want) {
		t.Fatalf("Expected %d bytes, got %v", len(want), allData)
	}
	for i := range want {
		if allData[i] != want[i] {
			t.Errorf("Wrap-around data mismatch: got %v", allData)
			break
		}
	}
}
