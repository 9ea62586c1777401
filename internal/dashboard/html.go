package dashboard

// indexHTML is the dashboard shell. It is self-contained: the page fetches
// everything from the JSON API so it can be served without assets.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Insight Dashboard</title>
<style>
  body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem; color: #1a1a2e; background: #f7f7fb; }
  h1 { font-size: 1.4rem; }
  .cards { display: flex; gap: 1rem; flex-wrap: wrap; margin-bottom: 1.5rem; }
  .card { background: #fff; border: 1px solid #e2e2ef; border-radius: 8px; padding: 1rem 1.25rem; min-width: 160px; }
  .card .label { font-size: 0.75rem; color: #6b6b85; text-transform: uppercase; }
  .card .value { font-size: 1.5rem; font-weight: 600; }
  section { background: #fff; border: 1px solid #e2e2ef; border-radius: 8px; padding: 1rem 1.25rem; margin-bottom: 1.5rem; }
  table { border-collapse: collapse; width: 100%; }
  th, td { text-align: left; padding: 0.35rem 0.6rem; border-bottom: 1px solid #eee; font-size: 0.9rem; }
  .pos { color: #0a7d41; } .neg { color: #b4231f; }
  input, select, button { font-size: 0.9rem; padding: 0.3rem 0.5rem; margin-right: 0.5rem; }
  #sim-result { margin-top: 0.75rem; }
</style>
</head>
<body>
<h1>Insight Dashboard</h1>

<div class="cards" id="overview-cards"></div>

<section>
  <h2>Demand Trend</h2>
  <div id="trend"></div>
</section>

<section>
  <h2>Top Drivers</h2>
  <select id="driver-outcome">
    <option value="conversion">Conversion</option>
    <option value="churn">Churn</option>
  </select>
  <table id="drivers"><thead><tr><th>Signal</th><th>Coefficient</th></tr></thead><tbody></tbody></table>
</section>

<section>
  <h2>Impact Simulator</h2>
  <select id="sim-outcome">
    <option value="conversion">Conversion</option>
    <option value="churn">Churn</option>
  </select>
  <span id="sim-signals"></span>
  <label>Uplift % <input type="number" id="sim-uplift" value="20" min="5" max="50"></label>
  <button id="sim-run">Run</button>
  <div id="sim-result"></div>
</section>

<script>
async function getJSON(url) {
  const res = await fetch(url);
  if (!res.ok) throw new Error(await res.text());
  return res.json();
}

function fmt(n, digits) { return Number(n).toFixed(digits === undefined ? 2 : digits); }

async function loadOverview() {
  const ov = await getJSON('/api/overview');
  const cards = [
    ['Total users', ov.total_users],
    ['Premium users', ov.premium_users],
    ['Forecast demand', fmt(ov.forecast_demand, 0)],
    ['Conversion lift', fmt(ov.conversion_lift) + 'x'],
    ['Churn risk', fmt(ov.churn_risk_percent, 1) + '%'],
    ['Targeted lift', fmt(ov.targeted_lift_percent, 1) + '%'],
  ];
  document.getElementById('overview-cards').innerHTML = cards.map(
    ([label, value]) => '<div class="card"><div class="label">' + label + '</div><div class="value">' + value + '</div></div>'
  ).join('');
}

async function loadTrend() {
  const t = await getJSON('/api/trend');
  const word = t.direction === 'rising' ? 'Demand is rising' : 'Demand is softening';
  document.getElementById('trend').textContent =
    word + ' (' + fmt(t.earlier_avg, 1) + ' → ' + fmt(t.recent_avg, 1) + ' over ' + t.points + ' days)';
}

async function loadDrivers() {
  const outcome = document.getElementById('driver-outcome').value;
  const d = await getJSON('/api/drivers?outcome=' + outcome);
  document.querySelector('#drivers tbody').innerHTML = (d.drivers || []).map(s =>
    '<tr><td>' + s.name + '</td><td class="' + (s.coefficient >= 0 ? 'pos' : 'neg') + '">' + fmt(s.coefficient, 3) + '</td></tr>'
  ).join('');
  const picker = (d.drivers || []).map(s =>
    '<label><input type="checkbox" name="sim-signal" value="' + s.name + '"> ' + s.name + '</label> '
  ).join('');
  document.getElementById('sim-signals').innerHTML = picker;
}

async function runSimulation() {
  const outcome = document.getElementById('sim-outcome').value;
  const selected = Array.from(document.querySelectorAll('input[name=sim-signal]:checked')).map(el => el.value);
  const uplift = Number(document.getElementById('sim-uplift').value);
  const out = document.getElementById('sim-result');
  try {
    const res = await fetch('/api/simulate', {
      method: 'POST',
      headers: {'Content-Type': 'application/json'},
      body: JSON.stringify({outcome: outcome, selected: selected, uplift_percent: uplift}),
    });
    if (!res.ok) throw new Error(await res.text());
    const rep = await res.json();
    const r = rep.result;
    out.innerHTML =
      '<p><strong>' + rep.interpretation.headline + '</strong></p>' +
      '<p>Net effect: <span class="' + (rep.interpretation.favorable ? 'pos' : 'neg') + '">' + fmt(r.net_effect, 3) + '</span>' +
      ' &middot; Confidence: ' + fmt(r.confidence_percent, 1) + '% (' + r.confidence_band + ')</p>' +
      '<p>' + rep.confidence_caption + '</p>' +
      '<ul>' + rep.interpretation.guidance.map(g => '<li>' + g + '</li>').join('') + '</ul>';
  } catch (err) {
    out.innerHTML = '<p class="neg">' + err.message + '</p>';
  }
}

document.getElementById('driver-outcome').addEventListener('change', loadDrivers);
document.getElementById('sim-outcome').addEventListener('change', () => {
  document.getElementById('driver-outcome').value = document.getElementById('sim-outcome').value;
  loadDrivers();
});
document.getElementById('sim-run').addEventListener('click', runSimulation);

loadOverview();
loadTrend();
loadDrivers();
</script>
</body>
</html>
`
