package cli

import (
	"encoding/json"
	"math"

	"github.com/spf13/cobra"

	"github.com/creditlens/creditscore/pkg/types"
	"github.com/creditlens/creditscore/server/internal/scorer"
)

type metricFlags struct {
	revenue      float64
	transactions float64
	age          float64
}

func (m *metricFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&m.revenue, "revenue", 0, "average monthly revenue")
	cmd.Flags().Float64Var(&m.transactions, "transactions", 0, "average monthly transaction count")
	cmd.Flags().Float64Var(&m.age, "age", 0, "business age in years")
}

func (m *metricFlags) request() types.ScoreRequest {
	return types.ScoreRequest{
		MonthlyRevenue:      m.revenue,
		MonthlyTransactions: m.transactions,
		BusinessAge:         m.age,
	}
}

func (m *metricFlags) hasNaN() bool {
	return math.IsNaN(m.revenue) || math.IsNaN(m.transactions) || math.IsNaN(m.age)
}

func newScoreCmd() *cobra.Command {
	var (
		in     metricFlags
		bureau bool
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute a credit score locally",
		Long: `Score computes the credit score for the given metrics without a server.

By default it prints the 0–100 score. With --bureau it prints the
300–900 bureau-scale score, which rejects negative inputs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in.hasNaN() {
				return scorer.ErrNotANumber
			}
			var resp types.ScoreResponse
			if bureau {
				s, err := scorer.Bureau(in.transactions, in.revenue, in.age)
				if err != nil {
					return err
				}
				resp.CreditScore = s
			} else {
				resp.CreditScore = scorer.Score(in.revenue, in.transactions, in.age)
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(resp)
		},
	}

	in.register(cmd)
	cmd.Flags().BoolVar(&bureau, "bureau", false, "print the 300–900 bureau-scale score")
	return cmd
}
