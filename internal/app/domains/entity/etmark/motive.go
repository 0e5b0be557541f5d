package etmark

// MotiveCode 打标原因码（封闭集合）
type MotiveCode string

const (
	MotiveFiscalization MotiveCode = "F"
	MotiveDeclaration   MotiveCode = "D"
	MotiveE             MotiveCode = "E"
	MotiveG             MotiveCode = "G"
	MotiveO             MotiveCode = "O"
	MotiveR             MotiveCode = "R"
	MotiveSEREMI        MotiveCode = "SEREMI"
	MotiveISP           MotiveCode = "ISP"
	MotiveDGMN          MotiveCode = "DGMN"
	MotiveSERNAPESCA    MotiveCode = "SERNAPESCA"
	MotiveDF            MotiveCode = "DF"
	MotivePartida       MotiveCode = "PARTIDA"
)

var motiveCodes = []MotiveCode{
	MotiveFiscalization,
	MotiveDeclaration,
	MotiveE,
	MotiveG,
	MotiveO,
	MotiveR,
	MotiveSEREMI,
	MotiveISP,
	MotiveDGMN,
	MotiveSERNAPESCA,
	MotiveDF,
	MotivePartida,
}

// Valid 是否属于封闭集合（大小写敏感）
func (m MotiveCode) Valid() bool {
	for _, c := range motiveCodes {
		if c == m {
			return true
		}
	}
	return false
}

// ValidMotives 全部合法原因码，顺序固定
func ValidMotives() []string {
	out := make([]string, len(motiveCodes))
	for i, c := range motiveCodes {
		out[i] = string(c)
	}
	return out
}
