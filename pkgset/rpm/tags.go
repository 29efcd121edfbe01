package rpm

// RPM header tag numbers used by this package. Only the tags spec §4.2
// enumerates are decoded.
const (
	tagName              = 1000
	tagVersion           = 1001
	tagRelease           = 1002
	tagEpoch             = 1003
	tagLicense           = 1014
	tagURL               = 1020
	tagArch              = 1022
	tagSourceRPM         = 1044
	tagProvideName       = 1047
	tagRequireName       = 1049
	tagChangelogTime     = 1080
	tagChangelogName     = 1081
	tagChangelogText     = 1082
	tagDirIndexes        = 1116
	tagBaseNames         = 1117
	tagDirNames          = 1118
	tagPayloadCompressor = 1125
)

// RPM header entry data types (rpm's "tagtype" enum).
const (
	typeNull       = 0
	typeChar       = 1
	typeInt8       = 2
	typeInt16      = 3
	typeInt32      = 4
	typeInt64      = 5
	typeString     = 6
	typeBin        = 7
	typeStringArray = 8
	typeI18NString = 9
)
