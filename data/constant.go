package data

import "time"

const (
	DateTimePattern = "2006-01-02 15:04:05"

	RunModeDev     = "dev"
	RunModeTest    = "test"
	RunModeRelease = "release"
)

const (
	//查询前缀长度
	BinLength = 6
	//相似前缀长度
	SimilarPrefixLength = 4
	//相似结果数量
	SimilarLimit = 3
	//国家统计数量
	TopCountryLimit = 10
	//健康检查样例数量
	SampleSize = 3

	//默认数据文件名
	DefaultDataFileName = "bin-list-data.csv"
	DataFileExt         = ".csv"

	//未知品牌/国家
	UnknownGroup = "Unknown"
)

const (
	ColumnBIN         = "BIN"
	ColumnBrand       = "Brand"
	ColumnIssuer      = "Issuer"
	ColumnCountryName = "CountryName"
)

const (
	DefaultPort       = 8080
	DefaultMode       = RunModeDev
	DefaultDataPath   = "./" + DefaultDataFileName
	DefaultLogLevel   = "info"
	DefaultMaxBulk    = 100
	DefaultRetryAfter = 10 * time.Second
)

// RequiredColumns must all be present in the header row of the data file.
var RequiredColumns = []string{ColumnBIN, ColumnBrand, ColumnIssuer, ColumnCountryName}

// DefaultProbeBINs are looked up by /api/test and cmd/bincheck.
var DefaultProbeBINs = []string{"411111", "510510", "401288"}
