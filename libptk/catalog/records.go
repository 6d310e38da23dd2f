package catalog

import (
	"github.com/2x3systems/ptk/ptk"
	proto "github.com/gogo/protobuf/proto"
)

// StateRecord is the value stored for each catalog state; the quantum numbers live in the key.
type StateRecord struct {
	Mass float64 `protobuf:"fixed64,1,opt,name=mass,proto3" json:"mass,omitempty"`
	Q    float64 `protobuf:"fixed64,2,opt,name=q,proto3" json:"q,omitempty"`
}

func (m *StateRecord) Reset()         { *m = StateRecord{} }
func (m *StateRecord) String() string { return proto.CompactTextString(m) }
func (*StateRecord) ProtoMessage()    {}

// ParamsRecord is the stored form of ptk.Params.
type ParamsRecord struct {
	AlphaPrime float64 `protobuf:"fixed64,1,opt,name=alpha_prime,proto3" json:"alpha_prime,omitempty"`
	AOpen      float64 `protobuf:"fixed64,2,opt,name=a_open,proto3" json:"a_open,omitempty"`
	AClosed    float64 `protobuf:"fixed64,3,opt,name=a_closed,proto3" json:"a_closed,omitempty"`
	R1         float64 `protobuf:"fixed64,4,opt,name=r1,proto3" json:"r1,omitempty"`
	R2         float64 `protobuf:"fixed64,5,opt,name=r2,proto3" json:"r2,omitempty"`
	C1         float64 `protobuf:"fixed64,6,opt,name=c1,proto3" json:"c1,omitempty"`
	C2         float64 `protobuf:"fixed64,7,opt,name=c2,proto3" json:"c2,omitempty"`
	D1         float64 `protobuf:"fixed64,8,opt,name=d1,proto3" json:"d1,omitempty"`
	D2         float64 `protobuf:"fixed64,9,opt,name=d2,proto3" json:"d2,omitempty"`
}

func (m *ParamsRecord) Reset()         { *m = ParamsRecord{} }
func (m *ParamsRecord) String() string { return proto.CompactTextString(m) }
func (*ParamsRecord) ProtoMessage()    {}

func paramsToRecord(p *ptk.Params) *ParamsRecord {
	return &ParamsRecord{
		AlphaPrime: p.AlphaPrime,
		AOpen:      p.AOpen,
		AClosed:    p.AClosed,
		R1:         p.R1,
		R2:         p.R2,
		C1:         p.C1,
		C2:         p.C2,
		D1:         p.D1,
		D2:         p.D2,
	}
}

func (m *ParamsRecord) Params() ptk.Params {
	if m == nil {
		return ptk.Params{}
	}
	return ptk.Params{
		AlphaPrime: m.AlphaPrime,
		AOpen:      m.AOpen,
		AClosed:    m.AClosed,
		R1:         m.R1,
		R2:         m.R2,
		C1:         m.C1,
		C2:         m.C2,
		D1:         m.D1,
		D2:         m.D2,
	}
}

// CatalogState is the catalog header, stored under gCatalogStateKey.
type CatalogState struct {
	MajorVers    uint32            `protobuf:"varint,1,opt,name=major_vers,proto3" json:"major_vers,omitempty"`
	MinorVers    uint32            `protobuf:"varint,2,opt,name=minor_vers,proto3" json:"minor_vers,omitempty"`
	CatalogID    []byte            `protobuf:"bytes,3,opt,name=catalog_id,proto3" json:"catalog_id,omitempty"`
	Params       *ParamsRecord     `protobuf:"bytes,4,opt,name=params,proto3" json:"params,omitempty"`
	NumStates    map[uint32]uint64 `protobuf:"bytes,5,rep,name=num_states,proto3" json:"num_states,omitempty" protobuf_key:"varint,1,opt,name=key,proto3" protobuf_val:"varint,2,opt,name=value,proto3"`
	NumDocuments uint64            `protobuf:"varint,6,opt,name=num_documents,proto3" json:"num_documents,omitempty"`
}

func (m *CatalogState) Reset()         { *m = CatalogState{} }
func (m *CatalogState) String() string { return proto.CompactTextString(m) }
func (*CatalogState) ProtoMessage()    {}
