package stack_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/physiosim/internal/pkpd"
	"github.com/san-kum/physiosim/internal/refdata"
	"github.com/san-kum/physiosim/internal/stack"
)

var _ = Describe("Evaluate", func() {
	var (
		ref     *pkpd.Reference
		profile pkpd.UserProfile
		sens    pkpd.Sensitivities
	)

	BeforeEach(func() {
		var err error
		ref, err = refdata.Default()
		Expect(err).NotTo(HaveOccurred())
		profile = pkpd.DefaultProfile()
		sens = pkpd.DefaultSensitivities()
	})

	eval := func(s pkpd.Stack) stack.Result {
		return stack.Evaluate(ref, s, profile, "lean_mass", sens, pkpd.DefaultEvidenceBlend)
	}

	Context("with an empty stack", func() {
		It("returns all-zero totals", func() {
			res := eval(pkpd.Stack{})
			Expect(res.TotalBenefit).To(BeZero())
			Expect(res.TotalRisk).To(BeZero())
			Expect(res.NetScore).To(BeZero())
			Expect(res.Ratio).To(BeZero())
		})
	})

	Context("with testosterone alone", func() {
		It("does not triple benefit when the dose triples", func() {
			low := eval(pkpd.Stack{{Compound: "testosterone", Dose: 500}})
			high := eval(pkpd.Stack{{Compound: "testosterone", Dose: 1500}})
			Expect(low.TotalBenefit).To(BeNumerically(">", 0))
			Expect(high.TotalBenefit / low.TotalBenefit).To(BeNumerically("<", 2.5))
		})

		It("keeps risk non-decreasing across the dose range", func() {
			prev := 0.0
			for dose := 0.0; dose <= 3000; dose += 50 {
				r := eval(pkpd.Stack{{Compound: "testosterone", Dose: dose}}).TotalRisk
				Expect(r).To(BeNumerically(">=", prev), "dose %v", dose)
				prev = r
			}
		})
	})

	Context("with an oral", func() {
		It("more than doubles risk when the daily dose doubles", func() {
			low := eval(pkpd.Stack{{Compound: "dianabol", Dose: 50}})
			high := eval(pkpd.Stack{{Compound: "dianabol", Dose: 100}})
			Expect(low.TotalRisk).To(BeNumerically(">", 0))
			Expect(high.TotalRisk / low.TotalRisk).To(BeNumerically(">", 2.2))
		})
	})

	Context("with two compounds", func() {
		It("gives identical totals in either order", func() {
			a := eval(pkpd.Stack{{Compound: "testosterone", Dose: 500}, {Compound: "trenbolone", Dose: 300}})
			b := eval(pkpd.Stack{{Compound: "trenbolone", Dose: 300}, {Compound: "testosterone", Dose: 500}})
			Expect(a.TotalBenefit).To(Equal(b.TotalBenefit))
			Expect(a.TotalRisk).To(Equal(b.TotalRisk))
			Expect(a.NetScore).To(Equal(b.NetScore))
			Expect(a.DimensionTotals).To(Equal(b.DimensionTotals))
		})

		It("never lets a risk dimension total leave [0,6]", func() {
			res := eval(pkpd.Stack{{Compound: "trenbolone", Dose: 1000}, {Compound: "nandrolone", Dose: 1000}})
			for _, p := range res.Pairs {
				for _, d := range p.Dimensions {
					Expect(d.Total).To(BeNumerically(">=", 0))
					Expect(d.Total).To(BeNumerically("<=", 6))
				}
			}
		})
	})

	Context("with receptor sensitivity", func() {
		It("scales benefit 1.2 : 1.0 : 0.8", func() {
			s := pkpd.Stack{{Compound: "testosterone", Dose: 500}}
			normal := eval(s).TotalBenefit
			profile.ReceptorSensitivity = pkpd.HyperResponder
			hyper := eval(s).TotalBenefit
			profile.ReceptorSensitivity = pkpd.LowResponder
			low := eval(s).TotalBenefit

			Expect(hyper / normal).To(BeNumerically("~", 1.2, 1e-6))
			Expect(hyper / low).To(BeNumerically("~", 1.5, 1e-6))
		})
	})
})
