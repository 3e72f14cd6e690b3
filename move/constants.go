package move

// Move binary format magic number ("A1 1C EB 0B" on the wire).
var Magic = [4]byte{0xA1, 0x1C, 0xEB, 0x0B}

// TableKind identifies a table in the module header.
type TableKind byte

// Table kinds as written in the table header.
const (
	TableModuleHandles      TableKind = 0x01
	TableStructHandles      TableKind = 0x02
	TableFunctionHandles    TableKind = 0x03
	TableFunctionInst       TableKind = 0x04
	TableSignatures         TableKind = 0x05
	TableConstantPool       TableKind = 0x06
	TableIdentifiers        TableKind = 0x07
	TableAddressIdentifiers TableKind = 0x08
	TableStructDefs         TableKind = 0x0A
	TableStructDefInst      TableKind = 0x0B
	TableFunctionDefs       TableKind = 0x0C
	TableFieldHandle        TableKind = 0x0D
	TableFieldInst          TableKind = 0x0E
	TableFriendDecls        TableKind = 0x0F
	TableMetadata           TableKind = 0x10
	TableEnumDefs           TableKind = 0x11
	TableEnumDefInst        TableKind = 0x12
	TableVariantHandles     TableKind = 0x13
	TableVariantInstHandles TableKind = 0x14
)

var tableNames = map[TableKind]string{
	TableModuleHandles:      "module handles",
	TableStructHandles:      "struct handles",
	TableFunctionHandles:    "function handles",
	TableFunctionInst:       "function instantiations",
	TableSignatures:         "signatures",
	TableConstantPool:       "constant pool",
	TableIdentifiers:        "identifiers",
	TableAddressIdentifiers: "address identifiers",
	TableStructDefs:         "struct definitions",
	TableStructDefInst:      "struct definition instantiations",
	TableFunctionDefs:       "function definitions",
	TableFieldHandle:        "field handles",
	TableFieldInst:          "field instantiations",
	TableFriendDecls:        "friend declarations",
	TableMetadata:           "metadata",
	TableEnumDefs:           "enum definitions",
	TableEnumDefInst:        "enum definition instantiations",
	TableVariantHandles:     "variant handles",
	TableVariantInstHandles: "variant instantiation handles",
}

func (k TableKind) String() string {
	if name, ok := tableNames[k]; ok {
		return name
	}
	return "unknown table"
}

// Signature token tags.
const (
	TagBool                TokenTag = 0x01
	TagU8                  TokenTag = 0x02
	TagU64                 TokenTag = 0x03
	TagU128                TokenTag = 0x04
	TagAddress             TokenTag = 0x05
	TagReference           TokenTag = 0x06
	TagMutableReference    TokenTag = 0x07
	TagStruct              TokenTag = 0x08
	TagTypeParameter       TokenTag = 0x09
	TagVector              TokenTag = 0x0A
	TagStructInstantiation TokenTag = 0x0B
	TagSigner              TokenTag = 0x0C
	TagU16                 TokenTag = 0x0D
	TagU32                 TokenTag = 0x0E
	TagU256                TokenTag = 0x0F
)

// Format limits.
const (
	MaxTableCount      = 255
	MaxIdentifierSize  = 65535
	MaxConstantSize    = 65535
	MaxTokenDepth      = 256
	MaxTypeArgs        = 255
	MaxTableIndex      = 1<<16 - 1
	maxTableOffsetSize = 1<<32 - 1
)
