package reconcile

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// ProgressFunc receives rank-building progress. It is called from a single
// goroutine after each timing row completes.
type ProgressFunc func(done, total int)

type scoredPartner struct {
	idx   int
	score float64
}

// BuildRanks ranks, for every timing cue, the text cues that overlap it
// within the dynamic tolerance and score at least MinSimilarity, and the
// reverse for every text cue. The tolerance is always indexed by timing
// position. Items without partners get an empty rank map.
//
// Each pair is scored once; timing rows are scored in parallel.
func BuildRanks(ctx context.Context, text, timing []Cue, params Params, scorer Scorer, progress ProgressFunc) (RankTable, RankTable, error) {
	rows, err := scoreRows(ctx, text, timing, params, scorer, progress)
	if err != nil {
		return nil, nil, err
	}

	columns := make([][]scoredPartner, len(text))
	for timeIdx, row := range rows {
		for _, p := range row {
			columns[p.idx] = append(columns[p.idx], scoredPartner{idx: timeIdx, score: p.score})
		}
	}

	timingRanks := make(RankTable, len(timing))
	for timeIdx, row := range rows {
		timingRanks[timeIdx] = rankPartners(row, params.TopK)
	}
	textRanks := make(RankTable, len(text))
	for textIdx, column := range columns {
		textRanks[textIdx] = rankPartners(column, params.TopK)
	}
	return timingRanks, textRanks, nil
}

// scoreRows returns, per timing cue, the qualifying text cues in ascending
// text order.
func scoreRows(ctx context.Context, text, timing []Cue, params Params, scorer Scorer, progress ProgressFunc) ([][]scoredPartner, error) {
	rows := make([][]scoredPartner, len(timing))
	if len(timing) == 0 || len(text) == 0 {
		return rows, nil
	}

	normText := normalizeAll(text)
	normTiming := normalizeAll(timing)

	jobs := make(chan int)
	done := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < params.workerCount(len(timing)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for timeIdx := range jobs {
				tolerance := DynamicTolerance(timeIdx, len(timing), params.ToleranceStartMS, params.ToleranceEndMS)
				var row []scoredPartner
				for textIdx, cue := range text {
					if !Overlaps(timing[timeIdx], cue, tolerance) {
						continue
					}
					score := scorer.Score(normText[textIdx], normTiming[timeIdx])
					if score >= params.MinSimilarity {
						row = append(row, scoredPartner{idx: textIdx, score: score})
					}
				}
				rows[timeIdx] = row
				done <- timeIdx
			}
		}()
	}

	go func() {
		defer close(jobs)
		for timeIdx := range timing {
			select {
			case jobs <- timeIdx:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(done)
	}()

	completed := 0
	for range done {
		completed++
		if progress != nil {
			progress(completed, len(timing))
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// rankPartners sorts by descending score, keeping encounter order on ties,
// and assigns dense ranks to the first k.
func rankPartners(partners []scoredPartner, k int) map[int]int {
	sorted := slices.Clone(partners)
	slices.SortStableFunc(sorted, func(a, b scoredPartner) int {
		return cmp.Compare(b.score, a.score)
	})
	if len(sorted) > k {
		sorted = sorted[:k]
	}
	ranks := make(map[int]int, len(sorted))
	for i, p := range sorted {
		ranks[p.idx] = i + 1
	}
	return ranks
}
