package service

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"vozgestora/internal/model"
)

// referencePopulation is Campina Grande's population; metric volumes scale against it
const referencePopulation = 411807

var (
	hospitalNames = []string{"Hosp. Municipal Dr. Severino", "Maternidade Municipal", "UPA Central", "Hosp. de Trauma (Regional)"}
	neighborhoods = []string{"Centro", "Bairro das Nações", "Zona Sul", "Distrito Industrial", "Alto do Sertão"}
)

// MetricGenerator synthesizes demo metrics scaled by population
type MetricGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMetricGenerator creates a generator; a nil rng seeds one from the clock
func NewMetricGenerator(rng *rand.Rand) *MetricGenerator {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &MetricGenerator{rng: rng}
}

// noise returns base shifted by a uniform value in [-spread/2, spread/2)
func (g *MetricGenerator) noise(base, spread float64) float64 {
	return base + (g.rng.Float64()*spread - spread/2)
}

func floorNonNeg(v float64) float64 {
	return math.Max(0, math.Floor(v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Generate builds the full metric list for a municipality
func (g *MetricGenerator) Generate(m model.Municipality) []model.Metric {
	g.mu.Lock()
	defer g.mu.Unlock()

	pop := float64(m.Population) / referencePopulation

	rcl := math.Floor(g.noise(120_000_000, 20_000_000) * pop)
	revenue := rcl * 1.15
	expense := revenue * g.noise(0.92, 0.05)

	payrollPercent := g.noise(49.5, 5)
	payroll := rcl * payrollPercent / 100
	effective := payroll * g.noise(75, 10) / 100
	contracted := payroll - effective

	approval := math.Floor(g.noise(65, 15))

	unitsCount := 1
	switch {
	case m.Population > 200000:
		unitsCount = 4
	case m.Population > 50000:
		unitsCount = 2
	}
	units := make([]model.HospitalUnit, unitsCount)
	occupancySum := 0
	for i := range units {
		units[i] = model.HospitalUnit{
			Name:      hospitalNames[i%len(hospitalNames)],
			Occupancy: int(math.Floor(g.noise(78, 20))),
			TotalBeds: int(math.Floor(40 * (pop + 1))),
		}
		occupancySum += units[i].Occupancy
	}

	network := make([]model.HealthNetworkNode, len(neighborhoods))
	networkTotal := 0
	for i, n := range neighborhoods {
		upa := 0
		if g.rng.Float64() > 0.7 {
			upa = 1
		}
		network[i] = model.HealthNetworkNode{
			Neighborhood: n,
			UBS:          int(math.Max(1, math.Floor(g.noise(4, 3)*(pop+0.5)))),
			UPA:          upa,
		}
		networkTotal += network[i].UBS + network[i].UPA
	}

	id := func(prefix string) string { return prefix + "-" + m.ID }
	metric := func(prefix, name string, value float64, unit string, previous float64, dept model.Department, t model.Thresholds) model.Metric {
		return model.Metric{
			ID:             id(prefix),
			MunicipalityID: m.ID,
			Name:           name,
			Value:          value,
			Unit:           unit,
			PreviousValue:  previous,
			Department:     dept,
			Thresholds:     t,
		}
	}
	lowerIsBetter := func(warning, critical float64) model.Thresholds {
		return model.Thresholds{Warning: warning, Critical: critical}
	}
	higherIsBetter := func(warning, critical float64) model.Thresholds {
		return model.Thresholds{Warning: warning, Critical: critical, HigherIsBetter: true}
	}
	// zero thresholds with higherIsBetter keep non-negative volumes GREEN
	informational := model.Thresholds{HigherIsBetter: true}

	occupancy := metric("h-units", "Ocupação Hospitalar por Unidade", math.Floor(float64(occupancySum)/float64(unitsCount)), "%", 72, model.DepartmentSaude, lowerIsBetter(80, 90))
	occupancy.HospitalUnits = units
	healthNet := metric("h-network", "Rede de Bairros (UBS/UPA)", float64(networkTotal), "unid.", float64(len(network)*2), model.DepartmentSaude, higherIsBetter(10, 5))
	healthNet.HealthNetwork = network

	return []model.Metric{
		// Fiscal and political cockpit
		metric("lrf-percent", "Gasto com Pessoal (LRF)", round2(payrollPercent), "%", 47.2, model.DepartmentFinancas, lowerIsBetter(48.6, 51.3)),
		metric("arrecadacao", "Arrecadação Total", revenue, "R$", revenue*0.98, model.DepartmentFinancas, informational),
		metric("despesa", "Despesa Total", expense, "R$", expense*0.97, model.DepartmentFinancas, informational),
		metric("gasto-efetivo", "Pessoal Efetivo", effective, "R$", effective*0.99, model.DepartmentFinancas, informational),
		metric("gasto-contratado", "Pessoal Contratado", contracted, "R$", contracted*1.05, model.DepartmentFinancas, informational),
		metric("popularity", "Aprovação da Gestão", approval, "%", 62, model.DepartmentPolitico, higherIsBetter(50, 40)),

		// Public security
		metric("s-hom", "Homicídios", floorNonNeg(g.noise(5, 4)*pop), "ocorr.", 4*pop, model.DepartmentSeguranca, lowerIsBetter(6*pop, 10*pop)),
		metric("s-fem", "Feminicídios", floorNonNeg(g.noise(1, 0.5)*pop), "ocorr.", 0, model.DepartmentSeguranca, lowerIsBetter(1, 2)),
		metric("s-lat", "Latrocínio", floorNonNeg(g.noise(1, 0.5)*pop), "ocorr.", 0.2*pop, model.DepartmentSeguranca, lowerIsBetter(1, 2)),
		metric("s-ass", "Assaltos", floorNonNeg(g.noise(120, 40)*pop), "ocorr.", 110*pop, model.DepartmentSeguranca, lowerIsBetter(150*pop, 200*pop)),
		metric("s-fur", "Furtos", floorNonNeg(g.noise(250, 80)*pop), "ocorr.", 240*pop, model.DepartmentSeguranca, lowerIsBetter(300*pop, 400*pop)),

		// Road safety
		metric("t-acc", "Acid. Graves (Carro)", floorNonNeg(g.noise(15, 8)*pop), "ocorr.", 12*pop, model.DepartmentTransito, lowerIsBetter(20*pop, 30*pop)),
		metric("t-mot", "Acid. Motocicletas", floorNonNeg(g.noise(45, 15)*pop), "ocorr.", 40*pop, model.DepartmentTransito, lowerIsBetter(50*pop, 70*pop)),
		metric("t-fat", "Vítimas Fatais (Trânsito)", floorNonNeg(g.noise(3, 2)*pop), "vidas", 2*pop, model.DepartmentTransito, lowerIsBetter(4*pop, 6*pop)),

		// Health
		occupancy,
		healthNet,

		// Education and infrastructure
		metric("e1", "Frequência Escolar", math.Floor(g.noise(94, 4)), "%", 92, model.DepartmentEducacao, higherIsBetter(90, 80)),
		metric("i1", "Obras de Pavimentação", math.Max(1, math.Floor(g.noise(8, 6)*(pop*5))), "frentes", 5, model.DepartmentInfraestrutura, higherIsBetter(3, 1)),
	}
}
