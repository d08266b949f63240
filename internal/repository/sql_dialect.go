package repository

import (
	"database/sql/driver"
	"fmt"
	"strings"

	gosqlite "github.com/glebarez/go-sqlite"
	"gorm.io/gorm"
)

// likeEscapeChar LIKE 模式中的转义字符
const likeEscapeChar = `\`

// sqliteFoldFunc sqlite 下按 Unicode 规则转小写的自定义函数名
const sqliteFoldFunc = "unicode_lower"

func init() {
	// sqlite 内置 LOWER 只处理 ASCII，注册后对之后新建的连接生效
	gosqlite.MustRegisterDeterministicScalarFunction(sqliteFoldFunc, 1, unicodeLower)
}

func unicodeLower(_ *gosqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

func isPostgresDialect(dialect string) bool {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return true
	default:
		return false
	}
}

func likeOperatorByDialect(dialect string) string {
	if isPostgresDialect(dialect) {
		return "ILIKE"
	}
	return "LIKE"
}

// foldExprByDialect 返回按方言折叠大小写的列表达式
func foldExprByDialect(dialect, column string) string {
	if isPostgresDialect(dialect) {
		return fmt.Sprintf("LOWER(%s)", column)
	}
	return fmt.Sprintf("%s(%s)", sqliteFoldFunc, column)
}

// containsExprByDialect 构建不区分大小写的包含匹配表达式。
// postgres 使用 ILIKE；sqlite 的 LIKE 与 LOWER 只折叠 ASCII，两侧统一经 unicode_lower 折叠后再 LIKE。
func containsExprByDialect(dialect, column string) string {
	if isPostgresDialect(dialect) {
		return fmt.Sprintf("%s ILIKE ? ESCAPE '%s'", column, likeEscapeChar)
	}
	return fmt.Sprintf("%s LIKE ? ESCAPE '%s'", foldExprByDialect(dialect, column), likeEscapeChar)
}

// buildContainsCondition 构建多列 OR 包含匹配条件，并返回参数数量。
func buildContainsCondition(dialect string, columns []string) (string, int) {
	parts := make([]string, 0, len(columns))
	for _, column := range columns {
		trimmed := strings.TrimSpace(column)
		if trimmed == "" {
			continue
		}
		parts = append(parts, containsExprByDialect(dialect, trimmed))
	}
	return strings.Join(parts, " OR "), len(parts)
}

// escapeLikePattern 转义 LIKE 通配符，返回 %term% 形式的匹配参数。
func escapeLikePattern(dialect, term string) string {
	replacer := strings.NewReplacer(
		likeEscapeChar, likeEscapeChar+likeEscapeChar,
		"%", likeEscapeChar+"%",
		"_", likeEscapeChar+"_",
	)
	escaped := replacer.Replace(term)
	if !isPostgresDialect(dialect) {
		escaped = strings.ToLower(escaped)
	}
	return "%" + escaped + "%"
}

// repeatLikeArgs 生成重复的 LIKE 参数列表。
func repeatLikeArgs(like string, count int) []interface{} {
	args := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		args = append(args, like)
	}
	return args
}
