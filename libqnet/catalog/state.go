package catalog

import (
	"github.com/gogo/protobuf/proto"
)

// CatalogState is the catalog header stored under gCatalogStateKey.
type CatalogState struct {
	MajorVers       int32    `protobuf:"varint,1,opt,name=major_vers,json=majorVers,proto3" json:"major_vers,omitempty"`
	MinorVers       int32    `protobuf:"varint,2,opt,name=minor_vers,json=minorVers,proto3" json:"minor_vers,omitempty"`
	NQubit          int32    `protobuf:"varint,3,opt,name=nqubit,proto3" json:"nqubit,omitempty"`
	SwapConjugation bool     `protobuf:"varint,4,opt,name=swap_conjugation,json=swapConjugation,proto3" json:"swap_conjugation,omitempty"`
	RunID           string   `protobuf:"bytes,5,opt,name=run_id,json=runId,proto3" json:"run_id,omitempty"`
	NumNetworks     []uint64 `protobuf:"varint,6,rep,packed,name=num_networks,json=numNetworks,proto3" json:"num_networks,omitempty"`
	FinalDepth      int32    `protobuf:"varint,7,opt,name=final_depth,json=finalDepth,proto3" json:"final_depth,omitempty"`
}

func (m *CatalogState) Reset()         { *m = CatalogState{} }
func (m *CatalogState) String() string { return proto.CompactTextString(m) }
func (*CatalogState) ProtoMessage()    {}

// DepthRecord holds one depth's canonical networks, gates flattened network after network.
type DepthRecord struct {
	Depth        int32    `protobuf:"varint,1,opt,name=depth,proto3" json:"depth,omitempty"`
	TimeReversal bool     `protobuf:"varint,2,opt,name=time_reversal,json=timeReversal,proto3" json:"time_reversal,omitempty"`
	Count        int32    `protobuf:"varint,3,opt,name=count,proto3" json:"count,omitempty"`
	Gates        []uint32 `protobuf:"varint,4,rep,packed,name=gates,proto3" json:"gates,omitempty"`
}

func (m *DepthRecord) Reset()         { *m = DepthRecord{} }
func (m *DepthRecord) String() string { return proto.CompactTextString(m) }
func (*DepthRecord) ProtoMessage()    {}

func marshalState(state *CatalogState) ([]byte, error) {
	return proto.Marshal(state)
}

func unmarshalState(buf []byte, state *CatalogState) error {
	return proto.Unmarshal(buf, state)
}
