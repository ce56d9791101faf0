package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"

	"github.com/blackdogpanama/pedidos/backend-go/internal/domain"
)

const separator = "================================================================================"
const rule = "--------------------------------------------------"

// Render writes the plain-text operations log for one run.
func (r *Report) Render(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "LOG DE PEDIDOS SUGERIDOS - %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	b.WriteString(separator + "\n\n")

	b.WriteString("ESTADÍSTICAS GENERALES\n" + rule + "\n")
	fmt.Fprintf(&b, "Productos procesados: %d\n", r.Stats.ProductsProcessed)
	fmt.Fprintf(&b, "Productos con pedidos: %d\n", r.Stats.ProductsWithOrders)
	fmt.Fprintf(&b, "Productos excluidos: %d\n", r.Stats.TotalExcluded)
	fmt.Fprintf(&b, "Productos con unidad de reposición inválida: %d\n", len(r.InvalidLots))
	fmt.Fprintf(&b, "Productos solo clínica limitados: %d\n", r.Stats.ClinicOnlyLimited)
	b.WriteString("\n" + separator + "\n\n")

	if len(r.Excluded) > 0 {
		b.WriteString("PRODUCTOS EXCLUIDOS DEL PROCESAMIENTO\n" + rule + "\n")
		for _, e := range r.Excluded {
			fmt.Fprintf(&b, "%s - Motivo: %s\n", e.Product, e.Reason)
		}
		b.WriteString("\nRESUMEN DE EXCLUSIONES:\n")
		fmt.Fprintf(&b, "  Productos de Halloween: %d\n", r.Stats.HalloweenExcluded)
		fmt.Fprintf(&b, "  Productos de Navidad: %d\n", r.Stats.NavidadExcluded)
		otros := r.Stats.TotalExcluded - r.Stats.HalloweenExcluded - r.Stats.NavidadExcluded
		fmt.Fprintf(&b, "  Otros motivos: %d\n", otros)
		b.WriteString("\n" + separator + "\n\n")
	}

	b.WriteString("PRODUCTOS NO SUPLIDOS POR FALTA DE STOCK EN BODEGA\n" + rule + "\n")
	for _, s := range r.Shortfalls {
		fmt.Fprintf(&b, "%s (%s) en %s: Solicitado %d, Entregado %d\n",
			s.Product, s.Category, title(s.Store), s.Requested, s.Delivered)
	}
	b.WriteString("\n" + separator + "\n\n")

	b.WriteString("RESUMEN DE PRODUCTOS ENVIADOS POR TIENDA\n" + rule + "\n")
	for _, store := range sortedKeys(r.StoreTotals) {
		fmt.Fprintf(&b, "\n%s\n", strings.ToUpper(store))
		totals := r.StoreTotals[store]
		for _, t := range sortedTypes(totals) {
			fmt.Fprintf(&b, "  %s: %d unidades\n", title(string(t)), totals[t])
		}
	}
	b.WriteString("\n" + separator + "\n\n")

	b.WriteString("DETALLE DE MOTIVOS DE PEDIDO POR TIENDA Y PRODUCTO\n" + rule + "\n")
	for _, store := range sortedKeys(r.Detail) {
		fmt.Fprintf(&b, "\n%s\n", strings.ToUpper(store))
		for _, d := range r.Detail[store] {
			fmt.Fprintf(&b, "%s (%s): Cantidad %d - Motivo: %s\n", d.Product, d.Category, d.Quantity, d.Reason)
		}
	}

	if len(r.InvalidLots) > 0 {
		b.WriteString("\n" + separator + "\n\n")
		b.WriteString("PRODUCTOS CON UNIDAD DE REPOSICIÓN INVÁLIDA\n" + rule + "\n")
		for _, p := range r.InvalidLots {
			fmt.Fprintf(&b, "%s (%s) - %s\n", p.Product, p.Code, p.Category)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedTypes(m map[domain.ProductType]int) []domain.ProductType {
	types := make([]domain.ProductType, 0, len(m))
	for t := range m {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// title uppercases the first letter of each word; store names are stored
// lowercased.
func title(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
