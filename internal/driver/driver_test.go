package driver_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/datac/internal/datac"
	"github.com/san-kum/datac/internal/driver"
	"github.com/san-kum/datac/internal/plot"
	"github.com/san-kum/datac/internal/storage"
	"github.com/san-kum/datac/internal/study"
)

// countingStudy wraps a study and counts calculation calls.
type countingStudy struct {
	study.Study
	calls *int
}

func (c countingStudy) Calculation() datac.Calculation {
	inner := c.Study.Calculation()
	return datac.Func(inner.Name(), func(a datac.Args) (any, error) {
		*c.calls++
		return inner.Calculate(a)
	})
}

var _ = Describe("NameRoot", func() {
	DescribeTable("strips the plot prefix",
		func(in, want string) {
			Expect(driver.NameRoot(in)).To(Equal(want))
		},
		Entry("prefixed", "plot_box_volume", "box_volume"),
		Entry("with extension", "plot_planck.go", "planck"),
		Entry("with directory", "/usr/bin/plotfree_fall", "free_fall"),
		Entry("plain", "pendulum_period", "pendulum_period"),
		Entry("trailing underscore", "plot_box_", "box"),
	)
})

var _ = Describe("Run", func() {
	var (
		ctx     context.Context
		dataDir string
		plotDir string
		calls   int
		opts    driver.Options
	)

	BeforeEach(func() {
		ctx = context.Background()
		dataDir = GinkgoT().TempDir()
		plotDir = GinkgoT().TempDir()
		calls = 0

		box := study.BoxVolume{}
		opts = driver.Options{
			Study:     countingStudy{Study: box, calls: &calls},
			Setup:     box.Defaults(),
			DataDir:   dataDir,
			PlotDir:   plotDir,
			PlotType:  "svg",
			NoDisplay: true,
		}
	})

	It("computes and saves when there is no cache", func() {
		out, err := driver.Run(ctx, opts)
		Expect(err).NotTo(HaveOccurred())

		Expect(out.Name).To(Equal("box_volume"))
		Expect(out.Reused).To(BeFalse())
		Expect(calls).To(Equal(3))
		Expect(out.DataPath).To(Equal(filepath.Join(dataDir, "box_volume.dat")))
		Expect(out.DataPath).To(BeARegularFile())
		Expect(out.Document.OrdinateName).To(Equal("volume"))
		Expect(out.Document.Ordinates.Magnitudes).To(Equal([]float64{6, 12, 18}))
	})

	It("writes the plot file", func() {
		out, err := driver.Run(ctx, opts)
		Expect(err).NotTo(HaveOccurred())

		Expect(out.PlotPath).To(Equal(filepath.Join(plotDir, "box_volume.svg")))
		data, err := os.ReadFile(out.PlotPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("<svg"))
	})

	It("reuses a cache computed from the same arguments", func() {
		_, err := driver.Run(ctx, opts)
		Expect(err).NotTo(HaveOccurred())

		out, err := driver.Run(ctx, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Reused).To(BeTrue())
		Expect(calls).To(Equal(3))
		Expect(out.Document.Ordinates.Magnitudes).To(Equal([]float64{6, 12, 18}))
	})

	It("fails when the cache was computed from different arguments", func() {
		_, err := driver.Run(ctx, opts)
		Expect(err).NotTo(HaveOccurred())

		opts.Setup.Params = map[string]any{"width": 5.0, "depth": 3.0}
		_, err = driver.Run(ctx, opts)
		Expect(errors.Is(err, driver.ErrCacheMismatch)).To(BeTrue())
		Expect(calls).To(Equal(3))
	})

	It("recomputes over a mismatched cache when clobbering", func() {
		_, err := driver.Run(ctx, opts)
		Expect(err).NotTo(HaveOccurred())

		opts.Setup.Params = map[string]any{"width": 5.0, "depth": 3.0}
		opts.Clobber = true
		out, err := driver.Run(ctx, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Reused).To(BeFalse())
		Expect(calls).To(Equal(6))
		Expect(out.Document.Ordinates.Magnitudes).To(Equal([]float64{15, 30, 45}))
	})

	It("serves repeated runs on a shared store from memory", func() {
		opts.Store = storage.New(dataDir, nil)

		first, err := driver.Run(ctx, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(os.WriteFile(first.DataPath, []byte("{not json"), 0644)).To(Succeed())

		out, err := driver.Run(ctx, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Reused).To(BeTrue())
		Expect(calls).To(Equal(3))
		Expect(out.Document.Ordinates.Magnitudes).To(Equal([]float64{6, 12, 18}))

		opts.Store = nil
		_, err = driver.Run(ctx, opts)
		Expect(errors.Is(err, storage.ErrBadDocument)).To(BeTrue())
	})

	It("shows the series unless display is disabled", func() {
		var shown []plot.Series
		opts.NoDisplay = false
		opts.Display = func(_ context.Context, s plot.Series) error {
			shown = append(shown, s)
			return nil
		}

		_, err := driver.Run(ctx, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(shown).To(HaveLen(1))
		Expect(shown[0].XLabel).To(Equal("height"))
		Expect(shown[0].Y).To(Equal([]float64{6, 12, 18}))
	})

	It("skips the image when no plot dir is given", func() {
		opts.PlotDir = ""
		out, err := driver.Run(ctx, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.PlotPath).To(BeEmpty())
	})

	It("does not save when the calculation fails", func() {
		opts.Setup.Params = map[string]any{"width": "wide", "depth": 3.0}
		_, err := driver.Run(ctx, opts)
		Expect(errors.Is(err, datac.ErrCalculationInvocation)).To(BeTrue())
		Expect(filepath.Join(dataDir, "box_volume.dat")).NotTo(BeAnExistingFile())
	})

	It("keeps dimensioned ordinates through the cache", func() {
		ff := study.FreeFall{}
		opts.Study = ff
		opts.Setup = ff.Defaults()

		_, err := driver.Run(ctx, opts)
		Expect(err).NotTo(HaveOccurred())
		out, err := driver.Run(ctx, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Reused).To(BeTrue())
		Expect(out.Document.Ordinates.Dimensioned).To(BeTrue())
		Expect(string(out.Document.Ordinates.Unit)).To(Equal("m"))
	})
})
