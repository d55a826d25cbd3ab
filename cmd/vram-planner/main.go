package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"

	"github.com/gpuplan/vram-planner-go/util/json"
	"github.com/gpuplan/vram-planner-go/util/signalx"

	. "github.com/gpuplan/vram-planner-go"
)

var Version = "v0.0.0"

func main() {
	ctx := signalx.Handler()

	// Parse arguments.

	var (
		// model options
		parameters  float64
		quant       = "FP16"
		kvQuant     string
		ctxSize     = 2048
		batchSize   = 1
		// placement options
		unified     bool
		gpuCount    = 1
		// catalog options
		catalogURL    string
		cachePath     string
		cacheExpire   = 24 * time.Hour
		token         string
		debug         bool
		skipProxy     bool
		skipTLSVerify bool
		skipDNSCache  bool
		// output options
		version       bool
		skipRecommend bool
		inJson        bool
		inPrettyJson  = true
	)
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage of vram-planner %v:\n", Version)
		fs.PrintDefaults()
	}
	fs.Float64Var(&parameters, "parameters", parameters, "Parameter count of the model in billions, e.g. "+
		"7 for a 7B model, required.")
	fs.StringVar(&quant, "quant", quant, "Quantization format of the model weights, select from "+
		"[FP32, FP16, BF16, INT8, INT6, INT5, INT4, INT3, INT2, NF4, GPTQ4, AWQ4, "+
		"GGUF_Q4_0, GGUF_Q4_K_M, GGUF_Q5_0, GGUF_Q5_K_M, GGUF_Q6_K, GGUF_Q8_0], "+
		"default is FP16.")
	fs.StringVar(&kvQuant, "kv-quant", kvQuant, "Quantization format of the Key-Value cache, optional, "+
		"default is equal to --quant.")
	fs.IntVar(&ctxSize, "ctx-size", ctxSize, "Size of the prompt context the Key-Value cache must hold, "+
		"default is 2048.")
	fs.IntVar(&batchSize, "batch-size", batchSize, "Number of sequences processed together, "+
		"default is 1.")
	fs.BoolVar(&unified, "unified", unified, "Estimate for a unified-memory system, "+
		"where GPU and CPU share one physical pool, e.g. Apple silicon.")
	fs.IntVar(&gpuCount, "gpu-count", gpuCount, "Number of discrete devices to spread the VRAM over, "+
		"ignored with --unified, "+
		"default is 1.")
	fs.StringVar(&catalogURL, "catalog-url", catalogURL, "Url where the raw GPU catalog to load, optional, "+
		"without it the builtin device list serves the recommendation.")
	fs.StringVar(&cachePath, "cache-path", cachePath, "Directory to cache the fetched catalog below, optional, "+
		"works with --catalog-url.")
	fs.DurationVar(&cacheExpire, "cache-expiration", cacheExpire, "How long a cached catalog counts as fresh, "+
		"works with --cache-path, "+
		"default is 24h.")
	fs.StringVar(&token, "token", token, "Bearer auth token to load the catalog, optional, "+
		"works with --catalog-url.")
	fs.BoolVar(&debug, "debug", debug, "Enable debugging, verbosity.")
	fs.BoolVar(&skipProxy, "skip-proxy", skipProxy, "Skip proxy settings, "+
		"works with --catalog-url, "+
		"default is respecting the environment variables HTTP_PROXY/HTTPS_PROXY/NO_PROXY.")
	fs.BoolVar(&skipTLSVerify, "skip-tls-verify", skipTLSVerify, "Skip TLS verification, "+
		"works with --catalog-url, "+
		"default is verifying the TLS certificate on HTTPs request.")
	fs.BoolVar(&skipDNSCache, "skip-dns-cache", skipDNSCache, "Skip DNS cache, "+
		"works with --catalog-url, "+
		"default is caching the DNS lookup result.")
	fs.BoolVar(&version, "version", version, "Show vram-planner version.")
	fs.BoolVar(&skipRecommend, "skip-recommend", skipRecommend, "Skip to recommend devices.")
	fs.BoolVar(&inJson, "json", inJson, "Output as JSON.")
	fs.BoolVar(&inPrettyJson, "json-pretty", inPrettyJson, "Output as pretty JSON.")
	if err := fs.Parse(os.Args[1:]); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}

	if version {
		fmt.Printf("vram-planner %s\n", Version)
		return
	}

	if debug {
		SetLogger(zerolog.New(zerolog.NewConsoleWriter()).Level(zerolog.DebugLevel).With().Timestamp().Logger())
	}

	// Estimate.

	wq := QuantizationFormat(strings.ToUpper(quant))
	if !wq.Known() {
		fmt.Printf("unknown quantization format %q\n", quant)
		os.Exit(1)
	}

	cfg := ModelConfig{
		ParametersBillions: parameters,
		WeightQuantization: wq,
		ContextLength:      ctxSize,
		BatchSize:          batchSize,
	}
	if kvQuant != "" {
		cfg.KVCacheQuantization = QuantizationFormat(strings.ToUpper(kvQuant))
	}

	eopts := []MemoryEstimateOption{}
	if unified {
		eopts = append(eopts, WithUnifiedMemory())
	} else if gpuCount > 1 {
		eopts = append(eopts, WithGPUCount(gpuCount))
	}

	e, err := EstimateMemoryUsage(cfg, eopts...)
	if err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}

	// Recommend.

	var rs RecommendationSet
	if !skipRecommend {
		gc := BuiltinCatalog()
		if catalogURL != "" {
			copts := []CatalogFetchOption{
				UseCachePath(cachePath),
				UseCacheExpiration(cacheExpire),
			}
			if token != "" {
				copts = append(copts, UseBearerAuth(token))
			}
			if debug {
				copts = append(copts, UseDebug())
			}
			if skipProxy {
				copts = append(copts, SkipProxy())
			}
			if skipTLSVerify {
				copts = append(copts, SkipTLSVerification())
			}
			if skipDNSCache {
				copts = append(copts, SkipDNSCache())
			}
			gc = LoadCatalog(ctx, catalogURL, copts...)
		}
		rs = RecommendGPUs(gc, e)
	}

	// Output.

	if inJson {
		o := map[string]any{
			"estimate": e,
		}
		if !skipRecommend {
			o["recommendation"] = rs
		}
		enc := json.NewEncoder(os.Stdout)
		if inPrettyJson {
			enc.SetIndent("", "  ")
		}
		if err := enc.Encode(o); err != nil {
			fmt.Println(err.Error())
			os.Exit(1)
		}
		return
	}

	renderEstimate(e)
	if !skipRecommend {
		renderRecommendations(rs)
	}
}

func renderEstimate(e MemoryUsageEstimate) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleLight)
	tw.SetTitle("Estimate")
	tw.AppendHeader(table.Row{"Weights", "KV Cache", "Activation", "Overhead", "VRAM Min", "VRAM Rec", "RAM Min", "RAM Rec"})
	tw.AppendRow(table.Row{
		e.ModelSizeGB, e.KVCacheGB, e.ActivationGB, e.OverheadGB,
		e.VRAMMinimumGB, e.VRAMRecommendedGB, e.RAMMinimumGB, e.RAMRecommendedGB,
	})
	tw.Render()

	if e.UnifiedMemory && (e.MinimumExceedsLimit || e.RecommendedExceedsLimit) {
		fmt.Printf("NOTE: the requirement exceeds the %s unified-memory limit, figures above are capped.\n",
			e.UnifiedMemoryMaxGB)
	}
	if !e.UnifiedMemory && e.GPUCount > 1 {
		fmt.Printf("NOTE: VRAM spreads over %d devices, %s minimum and %s recommended per device.\n",
			e.GPUCount, e.VRAMPerGPUMinimumGB, e.VRAMPerGPURecommendedGB)
	}
}

func renderRecommendations(rs RecommendationSet) {
	rows := []struct {
		label string
		r     *GPURecommendation
	}{
		{"Optimal", rs.Optimal},
		{"Performance", rs.Performance},
		{"Budget", rs.Budget},
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleLight)
	tw.SetTitle("Recommendation (profile %s)", rs.ProfileVersion)
	tw.AppendHeader(table.Row{"Pick", "Device", "Vendor", "Count", "Total VRAM", "Meets Rec"})
	for _, row := range rows {
		if row.r == nil {
			tw.AppendRow(table.Row{row.label, "none compatible", "", "", "", ""})
			continue
		}
		tw.AppendRow(table.Row{
			row.label, row.r.Device.Name, row.r.Device.Vendor,
			row.r.Count, row.r.TotalVRAMGB, row.r.MeetsRecommended,
		})
	}
	tw.Render()
}
