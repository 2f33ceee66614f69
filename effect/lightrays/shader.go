package lightrays

// shaderWGSL mirrors Uniforms.Shade for backends that compile WGSL. The
// vertex stage emits a single full-screen triangle.
const shaderWGSL = `
struct Rays {
    resolution: vec2<f32>,
    ray_pos: vec2<f32>,
    ray_dir: vec2<f32>,
    color: vec3<f32>,
    time: f32,
    speed: f32,
    spread: f32,
    ray_length: f32,
    fade_distance: f32,
    saturation: f32,
    noise_amount: f32,
    distortion: f32,
    pulse1: f32,
    pulse2: f32,
}

@group(0) @binding(0) var<uniform> u: Rays;

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
}

@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> VertexOutput {
    var out: VertexOutput;
    let x = f32(i32(idx & 1u) * 4 - 1);
    let y = f32(i32(idx & 2u) * 2 - 1);
    out.position = vec4<f32>(x, y, 0.0, 1.0);
    return out;
}

fn noise(st: vec2<f32>) -> f32 {
    return fract(sin(dot(st, vec2<f32>(12.9898, 78.233))) * 43758.5453);
}

fn strength(coord: vec2<f32>, seed_a: f32, seed_b: f32, speed: f32, pulse: f32) -> f32 {
    let to_coord = coord - u.ray_pos;
    let dist = length(to_coord);
    if (dist == 0.0) {
        return 0.0;
    }
    let distorted = dot(to_coord / dist, u.ray_dir) + u.distortion;
    let spread_f = pow(max(distorted, 0.0), 1.0 / max(u.spread, 0.001));
    let max_dist = u.resolution.x * u.ray_length;
    let length_f = clamp((max_dist - dist) / max_dist, 0.0, 1.0);
    let fade_dist = u.resolution.x * u.fade_distance;
    let fade_f = clamp((fade_dist - dist) / fade_dist, 0.5, 1.0);
    let t = u.time * speed;
    let base = (0.45 + 0.15 * sin(distorted * seed_a + t)) + (0.3 + 0.2 * cos(-distorted * seed_b + t));
    return clamp(base, 0.0, 1.0) * length_f * fade_f * spread_f * pulse;
}

@fragment
fn fs_main(v: VertexOutput) -> @location(0) vec4<f32> {
    let coord = v.position.xy;
    let r1 = strength(coord, 36.2, 21.1, u.speed * 1.5, u.pulse1);
    let r2 = strength(coord, 22.3, 18.0, u.speed * 1.1, u.pulse2);
    var rgb = (r1 * 0.5 + r2 * 0.4) * u.color;
    if (u.noise_amount > 0.0) {
        let n = noise(coord * 0.01 + vec2<f32>(u.time, u.time));
        rgb = rgb * (1.0 - u.noise_amount + u.noise_amount * n);
    }
    let gray = dot(rgb, vec3<f32>(0.299, 0.587, 0.114));
    rgb = mix(vec3<f32>(gray, gray, gray), rgb, u.saturation);
    return vec4<f32>(clamp(rgb, vec3<f32>(0.0), vec3<f32>(1.0)), 1.0);
}
`
