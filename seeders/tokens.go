package seeders

import (
	"fmt"
	"io"

	"office-docflow/internal/entities"
	"office-docflow/pkg/service"
)

// PrintDevTokens выписывает по токену на каждое подразделение. Только для локальной разработки:
// вход и пользователи живут во внешней системе.
func PrintDevTokens(w io.Writer, jwtSvc service.JWTService) error {
	for _, branch := range entities.AllBranches {
		token, err := jwtSvc.GenerateToken("dev-"+branch.String(), branch.String())
		if err != nil {
			return fmt.Errorf("токен для %s: %w", branch, err)
		}
		fmt.Fprintf(w, "%-12s %s\n", branch, token)
	}
	return nil
}
